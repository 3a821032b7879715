// Command sample demonstrates the github.com/bjaus/mediate framework
// with a small order service built from mediator handlers.
//
// Start the server with:
//
//	go run ./cmd/sample
//
// or generate the OpenAPI document without serving:
//
//	go run ./cmd/sample -spec                        (stdout)
//	go run ./cmd/sample -spec -o openapi.json        (file)
//
// While running:
//
//	GET    http://localhost:8080/openapi.json        — OpenAPI document
//	GET    http://localhost:8080/docs                — docs UI
//	GET    http://localhost:8080/orders              — list orders
//	POST   http://localhost:8080/orders              — create order
//	GET    http://localhost:8080/orders/{id}         — get order
//	DELETE http://localhost:8080/orders/{id}         — cancel order
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/bjaus/mediate"
)

func main() {
	specFlag := flag.Bool("spec", false, "Print the OpenAPI document to stdout and exit")
	outFlag := flag.String("o", "", "Output file for the document (requires -spec)")
	flag.Parse()

	logger := mediate.NewRotatingLogger(mediate.RotatingLoggerConfig{
		Filename: os.Getenv("SAMPLE_LOG_FILE"),
		Console:  true,
	})
	defer logger.Sync() //nolint:errcheck // best-effort on shutdown

	r := newRouter(logger)

	if *specFlag {
		if err := writeSpec(r, *outFlag); err != nil {
			logger.Error("spec generation failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("starting server",
		zap.String("addr", ":8080"),
		zap.String("spec", "http://localhost:8080/openapi.json"),
	)

	if err := r.ListenAndServe(ctx, ":8080"); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", zap.Error(err))
	}

	logger.Info("server stopped")
}

func newRouter(logger *zap.Logger) *mediate.Router {
	r := mediate.New(
		mediate.WithTitle("Orders API"),
		mediate.WithVersion("1.0.0"),
		mediate.WithValidator(mediate.StructValidator()),
		mediate.WithJSONOptions(mediate.JSONOptions{DisallowUnknownFields: true}),
		mediate.WithDecodeErrorHook(func(req *http.Request, err error) {
			logger.Warn("bad request body",
				zap.String("path", req.URL.Path),
				zap.Error(err),
			)
		}),
		mediate.WithResponseConvention(
			mediate.ResponseMeta{Status: http.StatusInternalServerError},
			mediate.ResponseMeta{Default: true},
		),
		mediate.WithTagDescriptions(map[string]string{
			"orders": "Order management",
		}),
	)

	r.Use(
		mediate.Recovery(),
		mediate.RequestID(),
		mediate.ZapLogger(logger),
		mediate.RateLimit(mediate.RateLimitConfig{Rate: 50, Burst: 100}),
	)

	store := newStore()

	mediate.Mount(r, &ListOrders{store: store}, mediate.WithTags("orders"))
	mediate.Mount(r, &GetOrder{store: store},
		mediate.WithTags("orders"),
		mediate.WithErrors(http.StatusNotFound),
	)
	mediate.Mount(r, &CreateOrder{store: store},
		mediate.WithTags("orders"),
		mediate.WithStatus(http.StatusCreated),
		mediate.WithErrors(http.StatusUnprocessableEntity),
	)
	mediate.Mount(r, &CancelOrder{store: store},
		mediate.WithTags("orders"),
		mediate.WithErrors(http.StatusNotFound, http.StatusConflict),
	)

	r.ServeSpec("/openapi.json")
	r.ServeSpecYAML("/openapi.yaml")
	r.ServeDocs("/docs")

	return r
}

func writeSpec(r *mediate.Router, path string) error {
	var out io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return r.WriteSpec(out)
}

// Order is the aggregate served by the sample handlers.
type Order struct {
	ID     string  `json:"id"`
	SKU    string  `json:"sku"`
	Qty    int     `json:"qty"`
	Total  float64 `json:"total"`
	Status string  `json:"status"`
}

type store struct {
	mu     sync.Mutex
	orders map[string]*Order
	nextID int
}

func newStore() *store {
	return &store{orders: make(map[string]*Order), nextID: 1}
}

// ListOrders returns all orders, newest last.
type ListOrders struct {
	store *store
}

type ListOrdersReq struct {
	Limit int `query:"limit" default:"50" doc:"Maximum orders to return"`
}

type ListOrdersResp struct {
	Orders []Order `json:"orders"`
}

func (*ListOrders) Routes() []mediate.Route {
	return []mediate.Route{{Method: http.MethodGet, Pattern: "/orders"}}
}

func (h *ListOrders) Handle(_ context.Context, req *ListOrdersReq) (*ListOrdersResp, error) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	resp := &ListOrdersResp{Orders: make([]Order, 0, len(h.store.orders))}
	for _, o := range h.store.orders {
		resp.Orders = append(resp.Orders, *o)
	}
	sort.Slice(resp.Orders, func(i, j int) bool { return resp.Orders[i].ID < resp.Orders[j].ID })

	if req.Limit > 0 && len(resp.Orders) > req.Limit {
		resp.Orders = resp.Orders[:req.Limit]
	}
	return resp, nil
}

// GetOrder fetches a single order by ID.
type GetOrder struct {
	store *store
}

type GetOrderReq struct {
	ID string `path:"id"`
}

func (*GetOrder) Routes() []mediate.Route {
	return []mediate.Route{{Method: http.MethodGet, Pattern: "/orders/{id}"}}
}

func (h *GetOrder) Handle(_ context.Context, req *GetOrderReq) (*Order, error) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	o, ok := h.store.orders[req.ID]
	if !ok {
		return nil, mediate.Errorf(http.StatusNotFound, "order %q not found", req.ID)
	}
	out := *o
	return &out, nil
}

// CreateOrder places a new order.
type CreateOrder struct {
	store *store
}

type CreateOrderReq struct {
	Body struct {
		SKU   string  `json:"sku" validate:"required"`
		Qty   int     `json:"qty" validate:"required,gt=0"`
		Price float64 `json:"price" validate:"required,gt=0"`
	}
}

func (*CreateOrder) Routes() []mediate.Route {
	return []mediate.Route{{Method: http.MethodPost, Pattern: "/orders"}}
}

func (h *CreateOrder) Handle(_ context.Context, req *CreateOrderReq) (*Order, error) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	o := &Order{
		ID:     fmt.Sprintf("ord-%04d", h.store.nextID),
		SKU:    req.Body.SKU,
		Qty:    req.Body.Qty,
		Total:  float64(req.Body.Qty) * req.Body.Price,
		Status: "placed",
	}
	h.store.nextID++
	h.store.orders[o.ID] = o

	out := *o
	return &out, nil
}

// CancelOrder cancels a placed order.
type CancelOrder struct {
	store *store
}

type CancelOrderReq struct {
	ID string `path:"id"`
}

func (*CancelOrder) Routes() []mediate.Route {
	return []mediate.Route{{Method: http.MethodDelete, Pattern: "/orders/{id}"}}
}

func (h *CancelOrder) Handle(_ context.Context, req *CancelOrderReq) (*mediate.Void, error) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	o, ok := h.store.orders[req.ID]
	if !ok {
		return nil, mediate.Errorf(http.StatusNotFound, "order %q not found", req.ID)
	}
	if o.Status == "shipped" {
		return nil, mediate.Error(http.StatusConflict, "order already shipped")
	}
	delete(h.store.orders, req.ID)
	return &mediate.Void{}, nil
}
