package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/related-nodes/app/block"
	"github.com/lysyi3m/related-nodes/app/database"
	"github.com/lysyi3m/related-nodes/app/related"
	"github.com/lysyi3m/related-nodes/app/render"
)

const (
	defaultAutocompleteLimit = 10
	maxAutocompleteLimit     = 50
)

func NewHandler(blocks *block.ConfigCache, nodeRepo database.NodeRepository,
	counterRepo database.CounterRepository, catalogRepo database.CatalogRepository,
	selector *related.Selector, builder *render.Builder, scheduler HealthReporter) *Handler {
	return &Handler{
		blocks:      blocks,
		nodeRepo:    nodeRepo,
		counterRepo: counterRepo,
		catalogRepo: catalogRepo,
		selector:    selector,
		builder:     builder,
		generator:   render.NewGenerator(),
		scheduler:   scheduler,
	}
}

func parseNodeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func (h *Handler) GetBlock(c *gin.Context) {
	name := c.Param("name")
	id, ok := parseNodeID(c)
	if !ok || name == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	blockConfig, err := h.blocks.GetConfig(name)
	if err != nil {
		slog.Error("Block configuration not found", "block", name, "error", err)
		c.Status(http.StatusNotFound)
		return
	}

	ref, err := h.nodeRepo.LoadByID(c.Request.Context(), id)
	if err != nil {
		slog.Error("Database error", "operation", "load_node", "node", id, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	if ref == nil {
		slog.Error("Reference node not found", "node", id)
		c.Status(http.StatusNotFound)
		return
	}

	knownTypes, err := h.catalogRepo.GetContentTypeNames(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "get_content_types", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	items := h.selector.Select(c.Request.Context(), ref.Reference(), blockConfig.Criteria(knownTypes))

	tree, err := h.builder.Build(c.Request.Context(), blockConfig, items)
	if err != nil {
		slog.Error("Block build error", "block", name, "node", id, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	html, err := h.generator.Run(tree)
	if err != nil {
		slog.Error("HTML generation error", "block", name, "node", id, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("X-Block-Name", name)
	c.Header("X-Block-Rows", strconv.Itoa(len(items)))
	c.Header("X-Display-Type", blockConfig.DisplayType())
	if tree != nil {
		c.Header("X-Display-Mode", string(tree.DisplayMode))
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// CountView records one view of a node for the popularity orderings.
func (h *Handler) CountView(c *gin.Context) {
	id, ok := parseNodeID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid node id"})
		return
	}

	node, err := h.nodeRepo.LoadByID(c.Request.Context(), id)
	if err != nil {
		slog.Error("Database error", "operation", "load_node", "node", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if node == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Node not found"})
		return
	}

	if err := h.counterRepo.IncrementViews(c.Request.Context(), id, time.Now()); err != nil {
		slog.Error("Database error", "operation", "increment_views", "node", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	counter, err := h.counterRepo.GetCounter(c.Request.Context(), id)
	if err != nil || counter == nil {
		slog.Error("Database error", "operation", "get_counter", "node", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"node":        id,
		"views_today": counter.DayCount,
		"views_total": counter.TotalCount,
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if nodeCount, err := h.nodeRepo.GetNodeCount(c.Request.Context()); err == nil {
		health["nodes"] = nodeCount
	}

	health["loaded_configurations"] = h.blocks.GetConfigCount()

	if h.scheduler != nil {
		health["scheduler"] = h.scheduler.Health()
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) validationErrors(c *gin.Context, blockConfig *block.Config, knownTypes []string) []string {
	err := blockConfig.ValidateReferences(c.Request.Context(), knownTypes, h.nodeRepo)
	return block.Errors(err)
}

func (h *Handler) APIListBlocks(c *gin.Context) {
	knownTypes, err := h.catalogRepo.GetContentTypeNames(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "get_content_types", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	configs := h.blocks.GetConfigs()
	blocks := make([]map[string]interface{}, 0, len(configs))

	for _, name := range h.blocks.GetConfigNames() {
		blockConfig := configs[name]
		if blockConfig == nil {
			continue
		}

		errs := h.validationErrors(c, blockConfig, knownTypes)
		blocks = append(blocks, map[string]interface{}{
			"name":         blockConfig.Name,
			"title":        blockConfig.Title,
			"display_type": blockConfig.DisplayType(),
			"mode":         blockConfig.RowDisplay.Mode,
			"limit":        blockConfig.RowDisplay.Limit,
			"valid":        len(errs) == 0,
			"errors":       errs,
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"blocks": blocks,
		"total":  len(blocks),
	})
}

func (h *Handler) APIGetBlockDetails(c *gin.Context) {
	name := c.Param("name")

	blockConfig, err := h.blocks.GetConfig(name)
	if err != nil {
		slog.Error("Block configuration not found", "block", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Block configuration not found"})
		return
	}

	knownTypes, err := h.catalogRepo.GetContentTypeNames(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "get_content_types", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	criteria := blockConfig.Criteria(knownTypes)
	selected := related.TrueSelection(criteria.ContentTypes, false).Keys()

	details := map[string]interface{}{
		"name":         name,
		"title":        blockConfig.Title,
		"display_type": blockConfig.DisplayType(),
		"criteria": map[string]interface{}{
			"specific_id":          criteria.SpecificID,
			"content_type_filter":  criteria.ContentTypeFilterMode,
			"content_types":        selected,
			"negate_content_types": criteria.NegateContentTypes,
			"ordering":             criteria.OrderingStrategy,
			"reference_timestamp":  criteria.ReferenceTimestampField,
			"limit":                criteria.Limit,
			"skip":                 criteria.Skip,
			"reverse_order":        criteria.ReverseOrder,
		},
		"row_display": map[string]interface{}{
			"mode":               blockConfig.RowDisplay.Mode,
			"linked_text":        blockConfig.RowDisplay.ModeOptions.LinkedText,
			"linked_text_maxlen": blockConfig.RowDisplay.ModeOptions.LinkedTextMaxLen,
			"view_mode":          blockConfig.RowDisplay.ModeOptions.ViewMode,
			"prefix_suffix_div":  blockConfig.RowDisplay.ModeOptions.PrefixSuffixDiv,
			"addl_css_classes":   blockConfig.RowDisplay.AddlCSSClasses,
		},
		"errors": h.validationErrors(c, blockConfig, knownTypes),
	}

	c.JSON(http.StatusOK, details)
}

func (h *Handler) APIReloadBlock(c *gin.Context) {
	name := c.Param("name")

	if _, err := h.blocks.GetConfig(name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Block configuration not found"})
		return
	}

	blockConfig, err := h.blocks.LoadConfig(name)
	if err != nil {
		slog.Error("Error reloading configuration", "block", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to reload configuration",
			"details": block.Errors(err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Configuration reloaded successfully",
		"block": gin.H{
			"name":         name,
			"title":        blockConfig.Title,
			"display_type": blockConfig.DisplayType(),
		},
	})
}

func (h *Handler) APIGetViewModes(c *gin.Context) {
	name := c.Param("name")

	blockConfig, err := h.blocks.GetConfig(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Block configuration not found"})
		return
	}

	knownTypes, err := h.catalogRepo.GetContentTypeNames(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "get_content_types", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	choices, err := blockConfig.ViewModeChoices(c.Request.Context(), knownTypes, h.nodeRepo, h.catalogRepo)
	if err != nil {
		slog.Error("Failed to list view modes", "block", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list view modes"})
		return
	}

	viewModes := make([]gin.H, 0, len(choices))
	for _, choice := range choices {
		viewModes = append(viewModes, gin.H{"id": choice.ID, "label": choice.Label})
	}

	c.JSON(http.StatusOK, gin.H{
		"block":      name,
		"view_modes": viewModes,
	})
}

func (h *Handler) APIAutocompleteNodes(c *gin.Context) {
	limit := defaultAutocompleteLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = min(parsed, maxAutocompleteLimit)
	}

	matches, err := h.nodeRepo.Autocomplete(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		slog.Error("Database error", "operation", "autocomplete", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	results := make([]gin.H, 0, len(matches))
	for _, m := range matches {
		results = append(results, gin.H{"id": m.ID, "label": m.Label})
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   c.Query("q"),
		"matches": results,
	})
}
