package http

import (
	"net/http"
	"strconv"

	"petit-marche/internal/repo/persistent"
	"petit-marche/internal/usecase"

	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	listingUseCase usecase.ListingUseCase
}

func NewListingHandler(listingUseCase usecase.ListingUseCase) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
	}
}

type UpdatePriceRequest struct {
	Price int `json:"price" binding:"required"`
}

// Publish godoc
// @Summary      Publish a new listing
// @Description  Create a listing. The first listing is free; afterwards a credit is consumed, or payment is required and the listing stays pending.
// @Tags         listings
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title formData string true "Listing title"
// @Param        description formData string false "Description"
// @Param        price formData int true "Price in FCFA (minimum 200)"
// @Param        category formData string true "Category"
// @Param        condition formData string false "Item condition"
// @Param        district formData string false "District"
// @Param        photos formData file true "1 to 5 photos"
// @Success      201  {object}  entity.PublishResult
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /listings [post]
func (h *ListingHandler) Publish(c *gin.Context) {
	userID := c.GetString("user_id")

	price, err := strconv.Atoi(c.PostForm("price"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be a number"})
		return
	}

	input := usecase.ListingInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Price:       price,
		Category:    c.PostForm("category"),
		Condition:   c.PostForm("condition"),
		District:    c.PostForm("district"),
	}

	form, err := c.MultipartForm()
	if err == nil && form != nil {
		input.Photos = form.File["photos"]
	}

	result, err := h.listingUseCase.Publish(userID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Browse godoc
// @Summary      Browse active listings
// @Description  List active listings, boosted first, filterable by category, district and text query
// @Tags         listings
// @Produce      json
// @Param        category query string false "Category filter"
// @Param        district query string false "District filter"
// @Param        q query string false "Text search in title and description"
// @Param        limit query int false "Page size (default 20)"
// @Param        offset query int false "Page offset"
// @Success      200  {array}  entity.Listing
// @Router       /listings [get]
func (h *ListingHandler) Browse(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	listings, err := h.listingUseCase.Browse(persistent.ListingFilter{
		Category: c.Query("category"),
		District: c.Query("district"),
		Query:    c.Query("q"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, listings)
}

// Get godoc
// @Summary      Get a listing
// @Description  Fetch one listing with photos and increment its view counter
// @Tags         listings
// @Produce      json
// @Param        id path string true "Listing ID"
// @Success      200  {object}  entity.Listing
// @Failure      404  {object}  map[string]string
// @Router       /listings/{id} [get]
func (h *ListingHandler) Get(c *gin.Context) {
	listing, err := h.listingUseCase.GetListing(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// MyListings godoc
// @Summary      List the current user's listings
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Page size (default 20)"
// @Param        offset query int false "Page offset"
// @Success      200  {array}  entity.Listing
// @Failure      401  {object}  map[string]string
// @Router       /me/listings [get]
func (h *ListingHandler) MyListings(c *gin.Context) {
	userID := c.GetString("user_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	listings, err := h.listingUseCase.MyListings(userID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, listings)
}

// UpdatePrice godoc
// @Summary      Update a listing's price
// @Tags         listings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Listing ID"
// @Param        request body UpdatePriceRequest true "New price"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /listings/{id}/price [put]
func (h *ListingHandler) UpdatePrice(c *gin.Context) {
	userID := c.GetString("user_id")

	var req UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.listingUseCase.UpdatePrice(c.Param("id"), userID, req.Price); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "price updated"})
}

// MarkSold godoc
// @Summary      Mark a listing as sold
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Listing ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /listings/{id}/sold [post]
func (h *ListingHandler) MarkSold(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := h.listingUseCase.MarkSold(c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "listing marked as sold"})
}

// Delete godoc
// @Summary      Delete a listing
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Listing ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /listings/{id} [delete]
func (h *ListingHandler) Delete(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := h.listingUseCase.Delete(c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "listing deleted"})
}
