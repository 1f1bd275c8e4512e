package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/piwi3910/RollSlit/internal/engine"
	"github.com/piwi3910/RollSlit/internal/export"
	"github.com/piwi3910/RollSlit/internal/importer"
	"github.com/piwi3910/RollSlit/internal/lp"
	"github.com/piwi3910/RollSlit/internal/model"
	"go.uber.org/zap"
)

// RollInput is one master roll in a request. Rolls sent over the API are
// always active.
type RollInput struct {
	ID     string  `json:"id"`
	Code   string  `json:"code"`
	Width  float64 `json:"width" binding:"gt=0"`
	Length float64 `json:"length" binding:"gt=0"`
}

// ItemInput is one unit of demand in a request.
type ItemInput struct {
	Width  float64 `json:"width" binding:"gt=0"`
	Length float64 `json:"length" binding:"gt=0"`
	Area   float64 `json:"area" binding:"gte=0"`
}

// OptimizeRequest is the body of POST /v1/optimize and POST /v1/compare.
// Demand comes from Items, from Orders ("paper/width/length/qty/area"
// codes), or both.
type OptimizeRequest struct {
	Items      []ItemInput     `json:"items" binding:"dive"`
	Orders     []string        `json:"orders"`
	Inventory  []RollInput     `json:"inventory" binding:"required,min=1,dive"`
	LabelCodes []string        `json:"label_codes"`
	Algorithm  model.Algorithm `json:"algorithm"`
	Settings   *model.Settings `json:"settings"`
}

// PlanRow is one block of the cutting plan. Waste is null when undefined.
type PlanRow struct {
	RollID string    `json:"roll_id"`
	Code   string    `json:"code,omitempty"`
	Block  int       `json:"block"`
	Width  float64   `json:"width"`
	Length float64   `json:"length"`
	Waste  *float64  `json:"waste"`
	Widths []float64 `json:"widths"`
}

// RunResponse summarizes a finished run.
type RunResponse struct {
	RunID      string          `json:"run_id"`
	Algorithm  model.Algorithm `json:"algorithm"`
	Valid      bool            `json:"valid"`
	Waste      *float64        `json:"waste"`
	WasteText  string          `json:"waste_text"`
	TargetArea float64         `json:"target_area"`
	RollsUsed  int             `json:"rolls_used"`
	Unassigned []model.Item    `json:"unassigned"`
	Pruned     int             `json:"pruned"`
	Restarts   int             `json:"restarts"`
	Completed  int             `json:"completed"`
	Cancelled  bool            `json:"cancelled"`
	DurationMS int64           `json:"duration_ms"`
	Plan       []PlanRow       `json:"plan,omitempty"`
}

// ScenarioResponse is one entry of a comparison.
type ScenarioResponse struct {
	Name       string       `json:"name"`
	Error      string       `json:"error,omitempty"`
	BlocksUsed int          `json:"blocks_used"`
	Run        *RunResponse `json:"run,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Health reports liveness.
func (s *Server) Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "rollslit",
		})
	}
}

// Optimize runs one optimization and stores the result under its run ID.
func (s *Server) Optimize() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OptimizeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: err.Error()})
			return
		}

		items, rows, settings, err := s.prepare(req)
		if err != nil {
			s.fail(c, err)
			return
		}

		ctx, cancel := s.requestContext(c.Request.Context())
		defer cancel()

		result, err := engine.New(settings, s.engineOptions()...).Optimize(ctx, items, rows)
		if err != nil {
			s.fail(c, err)
			return
		}
		s.store(result, settings.PercentWaste)

		s.log.Info("run stored",
			zap.String("run_id", result.RunID),
			zap.String("request_id", c.GetString(contextKeyRequestID)))
		c.JSON(http.StatusOK, newRunResponse(result, settings, true))
	}
}

// Compare runs the default scenarios derived from the request settings.
func (s *Server) Compare() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OptimizeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: err.Error()})
			return
		}

		items, rows, settings, err := s.prepare(req)
		if err != nil {
			s.fail(c, err)
			return
		}

		ctx, cancel := s.requestContext(c.Request.Context())
		defer cancel()

		scenarios := engine.BuildDefaultScenarios(settings)
		results := engine.CompareScenarios(ctx, scenarios, items, rows, s.engineOptions()...)

		resp := make([]ScenarioResponse, 0, len(results))
		for _, r := range results {
			sr := ScenarioResponse{Name: r.Scenario.Name}
			if r.Err != nil {
				sr.Error = r.Err.Error()
			} else {
				s.store(r.Result, r.Scenario.Settings.PercentWaste)
				run := newRunResponse(r.Result, r.Scenario.Settings, false)
				sr.Run = &run
				sr.BlocksUsed = r.BlocksUsed
			}
			resp = append(resp, sr)
		}
		c.JSON(http.StatusOK, gin.H{"scenarios": resp})
	}
}

// GetRun returns the summary of a stored run.
func (s *Server) GetRun() gin.HandlerFunc {
	return func(c *gin.Context) {
		r, ok := s.lookupRun(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, errorResponse{Code: "RUN_NOT_FOUND", Message: "run not found"})
			return
		}
		c.JSON(http.StatusOK, newRunResponse(r.result, model.Settings{PercentWaste: r.percentWaste}, false))
	}
}

// GetPlan returns the cutting plan of a stored run.
func (s *Server) GetPlan() gin.HandlerFunc {
	return func(c *gin.Context) {
		result, ok := s.Lookup(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, errorResponse{Code: "RUN_NOT_FOUND", Message: "run not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"run_id": result.RunID,
			"plan":   planRows(result),
		})
	}
}

// prepare turns a request into engine input. Request settings override the
// server's; a request algorithm overrides both.
func (s *Server) prepare(req OptimizeRequest) ([]model.Item, []model.InventoryRow, model.Settings, error) {
	settings := s.cfg.Settings
	if req.Settings != nil {
		settings = *req.Settings
	}
	if req.Algorithm != "" {
		settings.Algorithm = req.Algorithm
	}

	items := make([]model.Item, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, model.Item{Width: it.Width, Length: it.Length, Area: it.Area})
	}
	codes := req.LabelCodes
	if len(req.Orders) > 0 {
		lines, err := importer.ParseOrderCodes(req.Orders)
		if err != nil {
			return nil, nil, settings, err
		}
		ordered, _ := importer.NormalizeOrders(lines, s.cfg.LengthScale)
		items = append(items, ordered...)
		if len(codes) == 0 {
			codes = importer.LabelCodes(lines)
		}
	}

	rows := make([]model.InventoryRow, 0, len(req.Inventory))
	for _, r := range req.Inventory {
		row := model.NewInventoryRow(r.Code, r.Width, r.Length)
		if r.ID != "" {
			row.ID = r.ID
		}
		rows = append(rows, row)
	}
	return items, importer.FilterInventory(rows, codes), settings, nil
}

func (s *Server) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.MaxDuration > 0 {
		return context.WithTimeout(ctx, s.cfg.MaxDuration)
	}
	return context.WithCancel(ctx)
}

// fail maps engine and input errors onto HTTP statuses.
func (s *Server) fail(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL_ERROR"
	switch {
	case errors.Is(err, engine.ErrNoItems),
		errors.Is(err, engine.ErrNoRolls),
		errors.Is(err, engine.ErrInvalidSettings),
		errors.Is(err, engine.ErrInvalidItem),
		errors.Is(err, importer.ErrInvalidOrderCode):
		status, code = http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, lp.ErrNoSolver):
		status, code = http.StatusNotImplemented, "NO_SOLVER"
	case errors.Is(err, lp.ErrInfeasible):
		status, code = http.StatusUnprocessableEntity, "INFEASIBLE"
	case errors.Is(err, context.DeadlineExceeded):
		status, code = http.StatusGatewayTimeout, "TIMEOUT"
	}
	if status >= http.StatusInternalServerError {
		s.log.Error("optimization failed", zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, errorResponse{Code: code, Message: err.Error()})
}

func newRunResponse(result model.Result, settings model.Settings, withPlan bool) RunResponse {
	resp := RunResponse{
		RunID:      result.RunID,
		Algorithm:  result.Algorithm,
		Valid:      result.Valid,
		WasteText:  export.FormatWaste(result.Waste, settings.PercentWaste),
		TargetArea: result.TargetArea,
		Unassigned: result.UnassignedItems(),
		Pruned:     result.Pruned,
		Restarts:   result.Restarts,
		Completed:  result.Completed,
		Cancelled:  result.Cancelled,
		DurationMS: result.Duration.Milliseconds(),
	}
	if result.WasteDefined() {
		w := result.Waste
		resp.Waste = &w
	}
	if resp.Unassigned == nil {
		resp.Unassigned = []model.Item{}
	}
	if result.Solution != nil {
		for _, r := range result.Solution.Rolls {
			if !r.IsEmpty() {
				resp.RollsUsed++
			}
		}
	}
	if withPlan {
		resp.Plan = planRows(result)
	}
	return resp
}

func planRows(result model.Result) []PlanRow {
	if result.Solution == nil {
		return []PlanRow{}
	}
	table := result.Solution.Table()
	rows := make([]PlanRow, 0, len(table))
	for _, t := range table {
		row := PlanRow{
			RollID: t.RollID,
			Code:   strings.TrimSpace(t.Code),
			Block:  t.Block,
			Width:  t.Width,
			Length: t.Length,
			Widths: t.Widths,
		}
		if export.FormatWaste(t.Waste, false) != "-" {
			w := t.Waste
			row.Waste = &w
		}
		rows = append(rows, row)
	}
	return rows
}
