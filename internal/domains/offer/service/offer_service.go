package service

import (
	"context"

	"github.com/google/uuid"

	"phoneshop-backend/internal/domains/offer/model"
	"phoneshop-backend/internal/domains/offer/repository"
	"phoneshop-backend/pkg/logger"
)

type OfferService struct {
	offerRepo repository.OfferRepository
}

// NewOfferService creates a new offer service
func NewOfferService(offerRepo repository.OfferRepository) ServiceInterface {
	return &OfferService{offerRepo: offerRepo}
}

func (s *OfferService) Create(ctx context.Context, req model.CreateOfferRequest) (*model.Offer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	offer := req.ToEntity()
	if err := s.offerRepo.Create(ctx, offer); err != nil {
		logger.Error("Failed to create offer", err)
		return nil, err
	}
	logger.Info("Offer created", map[string]interface{}{"name": offer.Name})
	return offer, nil
}

func (s *OfferService) GetByID(ctx context.Context, id uuid.UUID) (*model.Offer, error) {
	return s.offerRepo.GetByID(ctx, id)
}

func (s *OfferService) List(ctx context.Context) ([]model.Offer, error) {
	return s.offerRepo.List(ctx)
}

func (s *OfferService) Update(ctx context.Context, id uuid.UUID, req model.UpdateOfferRequest) (*model.Offer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	offer, err := s.offerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(offer)
	if err := s.offerRepo.Update(ctx, offer); err != nil {
		logger.Error("Failed to update offer", err)
		return nil, err
	}
	return offer, nil
}

func (s *OfferService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.offerRepo.Delete(ctx, id); err != nil {
		logger.Error("Failed to delete offer", err)
		return err
	}
	return nil
}
