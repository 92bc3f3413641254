package main

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"

	"github.com/planviz/floorview/internal/geo"
	"github.com/planviz/floorview/internal/monitor"
	"github.com/planviz/floorview/internal/navsync"
	"github.com/planviz/floorview/internal/storage"
	"github.com/planviz/floorview/internal/util"
	"github.com/planviz/floorview/pkg/core"
)

// sessionView is the state snapshot returned for a session.
type sessionView struct {
	ID        string        `json:"id"`
	Plan      string        `json:"plan"`
	State     string        `json:"state"`
	Selection string        `json:"selection,omitempty"`
	Center    [2]float64    `json:"center"`
	Zoom      float64       `json:"zoom"`
	Markers   []core.Marker `json:"markers"`
	NavState  string        `json:"navState,omitempty"`
}

// worldMarker is a marker projected into EPSG:3857 via the plan anchor.
type worldMarker struct {
	ID    uint    `json:"id"`
	Label string  `json:"label"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
}

func snapshotSession(s *Session) sessionView {
	center, zoom := s.Controller.Camera()
	v := sessionView{
		ID:        s.ID,
		Plan:      s.Plan.Name,
		State:     s.Controller.State().String(),
		Selection: s.Controller.Selection(),
		Center:    [2]float64{center.X, center.Y},
		Zoom:      zoom,
		Markers:   s.Controller.Markers(),
	}
	if label, ok := s.Store.Read(); ok {
		v.NavState = navsync.Key + "=" + label
	}
	return v
}

func registerRoutes(app *fiber.App, backend storage.Backend, sessions *SessionManager, status *monitor.Service) {
	app.Get("/healthz", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/status", func(c fiber.Ctx) error {
		return c.JSON(status.GetStatus())
	})

	plans := app.Group("/plans")

	plans.Get("/", func(c fiber.Ctx) error {
		list, err := backend.ListPlans()
		if err != nil {
			return serverError(c, err)
		}
		return c.JSON(list)
	})

	plans.Post("/", func(c fiber.Ctx) error {
		var plan core.FloorPlan
		if err := c.Bind().Body(&plan); err != nil {
			return badRequest(c, "invalid plan body")
		}
		if plan.Name == "" || plan.ImageURL == "" {
			return badRequest(c, "name and imageUrl are required")
		}
		if err := backend.SavePlan(&plan); err != nil {
			return serverError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(plan)
	})

	plans.Get("/:name", func(c fiber.Ctx) error {
		plan, err := backend.GetPlan(c.Params("name"))
		if err != nil {
			return catalogError(c, err)
		}
		return c.JSON(plan)
	})

	plans.Delete("/:name", func(c fiber.Ctx) error {
		if err := backend.DeletePlan(c.Params("name")); err != nil {
			return catalogError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	plans.Get("/:name/markers", func(c fiber.Ctx) error {
		markers, err := backend.ListMarkers(c.Params("name"))
		if err != nil {
			return catalogError(c, err)
		}
		return c.JSON(markers)
	})

	// World coordinates for georeferenced plans. ?label=X narrows the
	// result to one marker.
	plans.Get("/:name/markers/world", func(c fiber.Ctx) error {
		plan, err := backend.GetPlan(c.Params("name"))
		if err != nil {
			return catalogError(c, err)
		}
		if plan.Anchor == nil {
			return badRequest(c, geo.ErrNoAnchor.Error())
		}

		markers, err := backend.ListMarkers(plan.Name)
		if err != nil {
			return catalogError(c, err)
		}
		if label := c.Query("label"); label != "" {
			m, ok := core.FindMarker(markers, label)
			if !ok {
				return notFound(c, fmt.Errorf("marker %q not found", label))
			}
			markers = []core.Marker{m}
		}

		out := make([]worldMarker, 0, len(markers))
		for _, m := range markers {
			pt, err := geo.WorldPoint(plan.Anchor, core.PixelPoint{X: m.X, Y: m.Y})
			if err != nil {
				return serverError(c, err)
			}
			xy, _ := pt.XY()
			out = append(out, worldMarker{ID: m.ID, Label: m.Label, East: xy.X, North: xy.Y})
		}
		return c.JSON(out)
	})

	plans.Put("/:name/markers", func(c fiber.Ctx) error {
		var markers []core.Marker
		if err := c.Bind().Body(&markers); err != nil {
			return badRequest(c, "invalid marker body")
		}
		if err := backend.SaveMarkers(c.Params("name"), markers); err != nil {
			return catalogError(c, err)
		}
		return c.JSON(markers)
	})

	sess := app.Group("/sessions")

	sess.Post("/", func(c fiber.Ctx) error {
		var req struct {
			Plan      string `json:"plan"`
			Selection string `json:"selection"`
		}
		if err := c.Bind().Body(&req); err != nil {
			return badRequest(c, "invalid session body")
		}
		if req.Plan == "" {
			return badRequest(c, "plan is required")
		}

		s, err := sessions.Create(c.Context(), req.Plan, req.Selection)
		if errors.Is(err, core.ErrPlanNotFound) {
			return notFound(c, err)
		}
		if err != nil {
			return serverError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(snapshotSession(s))
	})

	sess.Get("/:id", func(c fiber.Ctx) error {
		s, err := sessions.Get(c.Params("id"))
		if err != nil {
			return notFound(c, err)
		}
		return c.JSON(snapshotSession(s))
	})

	sess.Post("/:id/select", func(c fiber.Ctx) error {
		s, err := sessions.Get(c.Params("id"))
		if err != nil {
			return notFound(c, err)
		}

		var req struct {
			Label string `json:"label"`
		}
		if err := c.Bind().Body(&req); err != nil {
			return badRequest(c, "invalid select body")
		}
		label := util.NormalizeLabel(req.Label)
		if label == "" {
			return badRequest(c, "label is required")
		}

		s.Controller.SelectMarker(label)
		return c.JSON(snapshotSession(s))
	})

	sess.Post("/:id/reset", func(c fiber.Ctx) error {
		s, err := sessions.Get(c.Params("id"))
		if err != nil {
			return notFound(c, err)
		}
		s.Controller.ResetView()
		return c.JSON(snapshotSession(s))
	})

	sess.Put("/:id/markers", func(c fiber.Ctx) error {
		s, err := sessions.Get(c.Params("id"))
		if err != nil {
			return notFound(c, err)
		}

		var markers []core.Marker
		if err := c.Bind().Body(&markers); err != nil {
			return badRequest(c, "invalid marker body")
		}
		s.Controller.SetMarkers(markers)
		return c.JSON(snapshotSession(s))
	})

	sess.Delete("/:id", func(c fiber.Ctx) error {
		if err := sessions.Delete(c.Params("id")); err != nil {
			return notFound(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func notFound(c fiber.Ctx, err error) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
}

func serverError(c fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func catalogError(c fiber.Ctx, err error) error {
	if errors.Is(err, core.ErrPlanNotFound) {
		return notFound(c, err)
	}
	return serverError(c, err)
}
