package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/tradegram/backend/internal/models"
	"github.com/anonto42/tradegram/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ListingHandler handles listing and offer HTTP requests
type ListingHandler struct {
	offers *services.OfferService
}

// NewListingHandler creates a new ListingHandler
func NewListingHandler(offers *services.OfferService) *ListingHandler {
	return &ListingHandler{offers: offers}
}

// RegisterListingRoutes registers listing and offer routes
func (h *ListingHandler) RegisterListingRoutes(g *echo.Group) {
	g.POST("/listings", h.CreateListing)
	g.GET("/listings/:id", h.GetListing)
	g.DELETE("/listings/:id", h.DeleteListing)
	g.GET("/users/:id/listings", h.GetUserListings)

	g.POST("/listings/:id/offers", h.MakeOffer)
	g.GET("/listings/:id/offers", h.GetOffers)
	g.PUT("/offers/:id/accept", h.AcceptOffer)
	g.PUT("/offers/:id/decline", h.DeclineOffer)
}

func (h *ListingHandler) CreateListing(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}

	var req models.CreateListingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	listing, err := h.offers.CreateListing(c.Request().Context(), currentUserID, req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return success(c, http.StatusCreated, listing)
}

func (h *ListingHandler) GetListing(c echo.Context) error {
	listingID, err := parseUintParam(c, "id", "listing")
	if err != nil {
		return err
	}
	listing, err := h.offers.GetListing(c.Request().Context(), listingID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return success(c, http.StatusOK, listing)
}

// GetUserListings lists the listings owned by :id in creation order
func (h *ListingHandler) GetUserListings(c echo.Context) error {
	userID, err := parseUintParam(c, "id", "user")
	if err != nil {
		return err
	}
	listings, err := h.offers.ListingsOf(c.Request().Context(), userID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{"listings": listings})
}

func (h *ListingHandler) DeleteListing(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	listingID, err := parseUintParam(c, "id", "listing")
	if err != nil {
		return err
	}
	if err := h.offers.DeleteListing(c.Request().Context(), currentUserID, listingID); err != nil {
		return mapServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MakeOffer bids on someone else's listing
func (h *ListingHandler) MakeOffer(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	listingID, err := parseUintParam(c, "id", "listing")
	if err != nil {
		return err
	}

	var req models.CreateOfferRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	offer, err := h.offers.MakeOffer(c.Request().Context(), currentUserID, listingID, req)
	if err != nil {
		return mapServiceError(c, err)
	}
	return success(c, http.StatusCreated, offer)
}

// GetOffers lists offers on a listing. Only its owner may call it.
func (h *ListingHandler) GetOffers(c echo.Context) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	listingID, err := parseUintParam(c, "id", "listing")
	if err != nil {
		return err
	}
	offers, err := h.offers.OffersFor(c.Request().Context(), currentUserID, listingID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return success(c, http.StatusOK, echo.Map{"offers": offers})
}

func (h *ListingHandler) AcceptOffer(c echo.Context) error {
	return h.decide(c, h.offers.AcceptOffer)
}

func (h *ListingHandler) DeclineOffer(c echo.Context) error {
	return h.decide(c, h.offers.DeclineOffer)
}

func (h *ListingHandler) decide(c echo.Context, fn func(ctx context.Context, userID, offerID uint) (*models.Offer, error)) error {
	currentUserID, err := requireUser(c)
	if err != nil {
		return err
	}
	offerID, err := parseUintParam(c, "id", "offer")
	if err != nil {
		return err
	}
	offer, err := fn(c.Request().Context(), currentUserID, offerID)
	if err != nil {
		return mapServiceError(c, err)
	}
	return success(c, http.StatusOK, offer)
}
