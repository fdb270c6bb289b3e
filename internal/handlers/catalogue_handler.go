package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/resourcehub/backend/internal/models"
	"github.com/resourcehub/backend/internal/taxonomy"
	"go.uber.org/zap"
)

// HomeService is the interface that wraps the homepage query.
type HomeService interface {
	// Method Get returns the featured list and grade band sections, from cache when possible.
	//
	// If the sections cannot be built, the error will be returned together with "nil" value.
	Get(ctx context.Context) (*models.HomePage, error)
}

// TaxonomyResponse lists every controlled vocabulary
type TaxonomyResponse struct {
	TargetGrades        []string             `json:"targetGrades"`
	ResourceTypes       []string             `json:"resourceTypes"`
	TopicCategories     []taxonomy.Category  `json:"topicCategories"`
	CreditOrganizations []string             `json:"creditOrganizations"`
	Occupations         []string             `json:"occupations"`
	GradeBands          []taxonomy.GradeBand `json:"gradeBands"`
}

// CatalogueHandler serves the homepage and the vocabularies
type CatalogueHandler struct {
	BaseHandler
	home HomeService
}

// NewCatalogueHandler creates a new catalogue handler
func NewCatalogueHandler(home HomeService, logger *zap.Logger) *CatalogueHandler {
	return &CatalogueHandler{
		BaseHandler: BaseHandler{Logger: logger},
		home:        home,
	}
}

// RegisterRoutes registers all catalogue handler routes
func (h *CatalogueHandler) RegisterRoutes(r chi.Router) {
	r.Get("/home", h.Home)
	r.Get("/taxonomy", h.Taxonomy)
}

// Home handles GET /home
// @Summary Get homepage sections
// @Description Up to three active featured lists followed by the grade band sections, six resources each
// @Tags catalogue
// @Produce json
// @Success 200 {object} models.HomePage
// @Failure 500 {object} map[string]string
// @Router /home [get]
func (h *CatalogueHandler) Home(w http.ResponseWriter, r *http.Request) {
	page, err := h.home.Get(r.Context())
	if err != nil {
		h.RespondServiceError(w, err, "failed to load homepage")
		return
	}

	h.RespondJSON(w, http.StatusOK, page)
}

// Taxonomy handles GET /taxonomy
// @Summary Get vocabularies
// @Description Grades, resource types, topic categories, credit organizations and occupations
// @Tags catalogue
// @Produce json
// @Success 200 {object} TaxonomyResponse
// @Router /taxonomy [get]
func (h *CatalogueHandler) Taxonomy(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	h.RespondJSON(w, http.StatusOK, TaxonomyResponse{
		TargetGrades:        taxonomy.TargetGrades,
		ResourceTypes:       taxonomy.ResourceTypes,
		TopicCategories:     taxonomy.TopicCategories,
		CreditOrganizations: taxonomy.CreditOrganizations,
		Occupations:         taxonomy.Occupations,
		GradeBands:          taxonomy.GradeBands,
	})
}
