package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/anonto42/tradegram/backend/internal/models"
	"github.com/anonto42/tradegram/backend/internal/repositories"
	"github.com/anonto42/tradegram/backend/pkg/metrics"
	"github.com/sirupsen/logrus"
)

// OfferService manages listings and the offers made on them. Deciding an
// offer is reserved for users that SocialGraph.CanAccept.
type OfferService struct {
	listings      repositories.ListingRepository
	users         UserFinder
	graph         *SocialGraph
	notifications Notifier
}

func NewOfferService(listings repositories.ListingRepository, users UserFinder, graph *SocialGraph, notifications Notifier) *OfferService {
	return &OfferService{
		listings:      listings,
		users:         users,
		graph:         graph,
		notifications: notifications,
	}
}

func (s *OfferService) CreateListing(ctx context.Context, userID uint, req models.CreateListingRequest) (*models.Listing, error) {
	if err := models.ValidateStruct(req); err != nil {
		return nil, err
	}
	if _, err := findUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	listing := &models.Listing{Name: req.Name, Description: req.Description, UserID: userID}
	if err := s.listings.CreateListing(ctx, listing); err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}
	return listing, nil
}

func (s *OfferService) GetListing(ctx context.Context, id uint) (*models.Listing, error) {
	listing, err := s.listings.GetListingByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("load listing %d: %w", id, err)
	}
	return listing, nil
}

func (s *OfferService) ListingsOf(ctx context.Context, userID uint) ([]models.Listing, error) {
	if _, err := findUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	listings, err := s.listings.ListingsOf(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load listings of %d: %w", userID, err)
	}
	return listings, nil
}

func (s *OfferService) DeleteListing(ctx context.Context, userID, listingID uint) error {
	if err := s.requireOwner(ctx, userID, listingID); err != nil {
		return err
	}
	if err := s.listings.DeleteListing(ctx, listingID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrListingNotFound
		}
		return fmt.Errorf("delete listing %d: %w", listingID, err)
	}
	return nil
}

// MakeOffer records a pending offer by bidderID and notifies the listing owner.
func (s *OfferService) MakeOffer(ctx context.Context, bidderID, listingID uint, req models.CreateOfferRequest) (*models.Offer, error) {
	if err := models.ValidateStruct(req); err != nil {
		return nil, err
	}
	bidder, err := findUser(ctx, s.users, bidderID)
	if err != nil {
		return nil, err
	}
	listing, err := s.GetListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.UserID == bidder.ID {
		return nil, ErrOwnListing
	}

	offer := &models.Offer{
		ListingID:   listing.ID,
		UserID:      bidder.ID,
		AmountCents: req.AmountCents,
		Message:     req.Message,
		Status:      models.OfferPending,
	}
	if err := s.listings.CreateOffer(ctx, offer); err != nil {
		return nil, fmt.Errorf("create offer: %w", err)
	}

	notify(ctx, s.notifications, &models.Notification{
		Type:        models.NotificationOffer,
		ActorID:     bidder.ID,
		RecipientID: listing.UserID,
		TargetID:    strconv.FormatUint(uint64(offer.ID), 10),
		TargetType:  "offer",
		Message:     bidder.Username + " made an offer on " + listing.Name,
	})
	return offer, nil
}

// OffersFor lists the offers on a listing. Only the owner may see them.
func (s *OfferService) OffersFor(ctx context.Context, userID, listingID uint) ([]models.Offer, error) {
	if err := s.requireOwner(ctx, userID, listingID); err != nil {
		return nil, err
	}
	offers, err := s.listings.OffersFor(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("load offers of %d: %w", listingID, err)
	}
	return offers, nil
}

func (s *OfferService) AcceptOffer(ctx context.Context, userID, offerID uint) (*models.Offer, error) {
	return s.decide(ctx, userID, offerID, models.OfferAccepted)
}

func (s *OfferService) DeclineOffer(ctx context.Context, userID, offerID uint) (*models.Offer, error) {
	return s.decide(ctx, userID, offerID, models.OfferDeclined)
}

func (s *OfferService) decide(ctx context.Context, userID, offerID uint, to models.OfferStatus) (*models.Offer, error) {
	offer, err := s.listings.GetOfferByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("load offer %d: %w", offerID, err)
	}
	if err := s.requireOwner(ctx, userID, offer.ListingID); err != nil {
		return nil, err
	}
	if offer.Status != models.OfferPending {
		return nil, ErrOfferClosed
	}

	moved, err := s.listings.UpdateOfferStatus(ctx, offer.ID, models.OfferPending, to)
	if err != nil {
		return nil, fmt.Errorf("update offer %d: %w", offer.ID, err)
	}
	if !moved {
		return nil, ErrOfferClosed
	}
	offer.Status = to

	logrus.WithFields(logrus.Fields{"offer_id": offer.ID, "listing_id": offer.ListingID, "status": to}).Info("Offer decided")
	if to == models.OfferAccepted {
		metrics.OffersAccepted.Inc()
		notify(ctx, s.notifications, &models.Notification{
			Type:        models.NotificationOfferAccepted,
			ActorID:     userID,
			RecipientID: offer.UserID,
			TargetID:    strconv.FormatUint(uint64(offer.ID), 10),
			TargetType:  "offer",
			Message:     "Your offer was accepted",
		})
	}
	return offer, nil
}

func (s *OfferService) requireOwner(ctx context.Context, userID, listingID uint) error {
	ok, err := s.graph.CanAccept(ctx, userID, listingID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotListingOwner
	}
	return nil
}
