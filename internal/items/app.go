package items

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/reoring/skemapi/httpapi"
)

// NewApp builds the demo application on store.
func NewApp(cfg httpapi.Config, store Store, opts ...httpapi.Option) (*httpapi.App, error) {
	app := httpapi.New(cfg, opts...)
	h := &handlers{store: store, log: app.Logger()}
	if err := httpapi.Handle(app, httpapi.Route[ItemPath, UpdateItemBody]{
		Method:  http.MethodPut,
		Path:    "/items/{item_id}",
		Name:    "update_item",
		Params:  ItemPathSchema,
		Body:    UpdateItemBodySchema,
		Handler: h.updateItem,
	}); err != nil {
		return nil, err
	}
	if err := httpapi.Handle(app, httpapi.Route[ItemPath, struct{}]{
		Method:  http.MethodGet,
		Path:    "/items/{item_id}",
		Name:    "read_item",
		Params:  ItemPathSchema,
		Hidden:  true,
		Handler: h.readItem,
	}); err != nil {
		return nil, err
	}
	if err := httpapi.Handle(app, httpapi.Route[struct{}, struct{}]{
		Method:  http.MethodGet,
		Path:    "/items",
		Name:    "list_items",
		Hidden:  true,
		Handler: h.listItems,
	}); err != nil {
		return nil, err
	}
	return app, nil
}

type handlers struct {
	store Store
	log   *zap.Logger
}

func (h *handlers) updateItem(ctx context.Context, req *httpapi.Request[ItemPath, UpdateItemBody]) (any, error) {
	res := UpdateItemResponse{
		ItemID:     req.Params.ItemID,
		Item:       req.Body.Item,
		User:       req.Body.User,
		Importance: req.Body.Importance,
	}
	if err := h.store.Save(ctx, res); err != nil {
		return nil, err
	}
	h.log.Debug("item updated", zap.Int("item_id", res.ItemID), zap.String("user", res.User.Username))
	return res, nil
}

func (h *handlers) readItem(ctx context.Context, req *httpapi.Request[ItemPath, struct{}]) (any, error) {
	res, err := h.store.Get(ctx, req.Params.ItemID)
	if errors.Is(err, ErrNotFound) {
		return nil, httpapi.NewHTTPError(http.StatusNotFound, "Item not found")
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (h *handlers) listItems(ctx context.Context, _ *httpapi.Request[struct{}, struct{}]) (any, error) {
	return h.store.List(ctx)
}
