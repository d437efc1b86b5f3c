package api

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/xnacore/internal/content"
	"github.com/samcharles93/xnacore/internal/logger"
)

// DefaultMaxUpload caps the body of an inspection upload.
const DefaultMaxUpload = 64 << 20

type Server struct {
	store     *InspectionStore
	manager   *content.Manager
	log       logger.Logger
	clock     func() time.Time
	maxUpload int64

	// content.Manager is single-threaded; requests share one.
	managerMu sync.Mutex
}

type Option func(*Server)

func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMaxUpload(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

// NewServer serves inspections from store. manager resolves asset lookups
// and the external references of uploaded containers; it may be nil, in
// which case asset lookups fail and uploads decode without a content root.
func NewServer(store *InspectionStore, manager *content.Manager, opts ...Option) *Server {
	if store == nil {
		store = NewInspectionStore()
	}
	s := &Server{
		store:     store,
		manager:   manager,
		log:       logger.Discard(),
		clock:     time.Now,
		maxUpload: DefaultMaxUpload,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/inspections", s.handleCreateInspection)
	e.GET("/v1/inspections", s.handleListInspections)
	e.GET("/v1/inspections/:id", s.handleGetInspection)
	e.DELETE("/v1/inspections/:id", s.handleDeleteInspection)

	e.GET("/v1/assets", s.handleGetAsset)
}

func (s *Server) handleCreateInspection(c *echo.Context) error {
	data, err := io.ReadAll(io.LimitReader(c.Request().Body, s.maxUpload+1))
	if err != nil {
		return writeBadRequest(c, fmt.Sprintf("read body: %v", err))
	}
	if int64(len(data)) > s.maxUpload {
		return writeError(c, http.StatusRequestEntityTooLarge, "invalid_request_error",
			fmt.Sprintf("upload exceeds %d bytes", s.maxUpload))
	}
	if len(data) == 0 {
		return writeBadRequest(c, "request body must be an XNB container")
	}
	name := c.QueryParam("name")
	if name == "" {
		name = "upload"
	}

	in, err := s.inspect(content.NormalizeAssetName(name), data)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	rec, created := s.store.Create(in, s.clock())
	if !created {
		s.log.Debug("inspection deduplicated", "id", rec.ID, "blake3", rec.Digest)
		return c.JSON(http.StatusOK, rec)
	}
	s.log.Info("inspection created", "id", rec.ID, "asset", rec.Asset, "root_type", rec.RootType)
	return c.JSON(http.StatusCreated, rec)
}

func (s *Server) inspect(name string, data []byte) (*content.Inspection, error) {
	s.managerMu.Lock()
	defer s.managerMu.Unlock()
	m := s.manager
	if m == nil {
		m = content.NewManager(nil, "", nil, content.WithLogger(s.log))
	}
	return m.Inspect(name, data)
}

func (s *Server) handleListInspections(c *echo.Context) error {
	return c.JSON(http.StatusOK, InspectionList{Object: "list", Data: s.store.List()})
}

func (s *Server) handleGetInspection(c *echo.Context) error {
	id := c.Param("id")
	rec, ok := s.store.Get(id)
	if !ok {
		return writeNotFound(c, fmt.Sprintf("inspection %q not found", id))
	}
	return c.JSON(http.StatusOK, rec)
}

func (s *Server) handleDeleteInspection(c *echo.Context) error {
	id := c.Param("id")
	if !s.store.Delete(id) {
		return writeNotFound(c, fmt.Sprintf("inspection %q not found", id))
	}
	return c.JSON(http.StatusOK, DeleteInspectionResp{ID: id, Object: "inspection.deleted", Deleted: true})
}

func (s *Server) handleGetAsset(c *echo.Context) error {
	if s.manager == nil {
		return writeError(c, http.StatusInternalServerError, "server_error", "content manager not configured")
	}
	name := strings.TrimSpace(c.QueryParam("name"))
	if name == "" {
		return writeBadRequest(c, newInvalidRequest("name is required").Error())
	}

	s.managerMu.Lock()
	v, err := s.manager.Load(name)
	s.managerMu.Unlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return writeNotFound(c, err.Error())
		}
		return writeError(c, http.StatusUnprocessableEntity, "content_error", err.Error())
	}
	return c.JSON(http.StatusOK, AssetSummary{
		Name:    content.NormalizeAssetName(name),
		Object:  "asset",
		Type:    fmt.Sprintf("%T", v),
		Details: describe(v),
	})
}
