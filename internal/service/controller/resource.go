package controller

import (
	"context"

	"github.com/uma-arai/capachica-client/internal/api"
)

// ResourceController は list/get/create/update/delete だけを持つリソースの共通実装です
type ResourceController[T, R any] struct {
	client    *api.Client
	endpoints api.Resource
}

func newResource[T, R any](client *api.Client, endpoints api.Resource) *ResourceController[T, R] {
	return &ResourceController[T, R]{client: client, endpoints: endpoints}
}

func (c *ResourceController[T, R]) All(ctx context.Context) api.Result[[]T] {
	return api.Call[[]T](ctx, c.client, c.endpoints.List())
}

func (c *ResourceController[T, R]) Get(ctx context.Context, id int) api.Result[T] {
	return api.Call[T](ctx, c.client, c.endpoints.Get(id))
}

func (c *ResourceController[T, R]) Create(ctx context.Context, req R) api.Result[T] {
	return api.Call[T](ctx, c.client, c.endpoints.Create(req))
}

func (c *ResourceController[T, R]) Update(ctx context.Context, id int, req R) api.Result[T] {
	return api.Call[T](ctx, c.client, c.endpoints.Update(id, req))
}

func (c *ResourceController[T, R]) Delete(ctx context.Context, id int) api.Result[api.Empty] {
	return api.Call[api.Empty](ctx, c.client, c.endpoints.Delete(id))
}
