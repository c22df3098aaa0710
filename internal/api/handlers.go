package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/relevancelab/searcheval/internal/apperr"
	"github.com/relevancelab/searcheval/internal/evaluation"
	"github.com/relevancelab/searcheval/internal/export"
	"github.com/relevancelab/searcheval/internal/metrics"
	"github.com/relevancelab/searcheval/internal/store"
)

type evaluationRequest struct {
	Name   string   `json:"name"`
	Index  string   `json:"index"`
	Fields []string `json:"fields"`
	Size   int      `json:"size"`
	K      int      `json:"k"`
	Beta   float64  `json:"beta"`
}

type evaluationResponse struct {
	Run       store.RunRecord `json:"run"`
	Recall    *metrics.Result `json:"recall"`
	Precision *metrics.Result `json:"precision"`
	FScore    *metrics.Result `json:"fscore"`
	Palette   []string        `json:"palette"`
}

func (s *Server) createEvaluation(c echo.Context) error {
	var req evaluationRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid evaluation request", err)
	}
	if req.Name == "" {
		return apperr.NewValidation("evaluation needs a name")
	}
	if req.Index == "" {
		return apperr.NewValidation("evaluation needs an index")
	}
	if req.Beta == 0 {
		req.Beta = 1
	}

	ctx := c.Request().Context()
	run, err := evaluation.NewRun(ctx, s.client, s.ds, evaluation.RunConfig{
		Name:   req.Name,
		Index:  req.Index,
		Fields: req.Fields,
		Size:   req.Size,
		K:      req.K,
	})
	if err != nil {
		return err
	}

	recall, err := run.Recall(ctx)
	if err != nil {
		return err
	}
	precision, err := run.Precision(ctx)
	if err != nil {
		return err
	}
	fscore, err := run.FScore(ctx, req.Beta)
	if err != nil {
		return err
	}

	rec := store.RunRecord{
		ID:             run.ID(),
		Name:           run.Name(),
		Index:          run.Index(),
		K:              run.K(),
		RecallTotal:    recall.Total,
		PrecisionTotal: precision.Total,
		FScoreTotal:    fscore.Total,
	}
	if err := s.runs.SaveRun(ctx, rec); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, evaluationResponse{
		Run:       rec,
		Recall:    recall,
		Precision: precision,
		FScore:    fscore,
		Palette:   export.DefaultPalette,
	})
}

func (s *Server) listRuns(c echo.Context) error {
	records, err := s.runs.ListRuns(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, records)
}

func (s *Server) getRun(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NewValidationWrap("invalid run id", err)
	}
	rec, err := s.runs.GetRun(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

func (s *Server) health(c echo.Context) error {
	if err := s.client.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "backend unreachable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
