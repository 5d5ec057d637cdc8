package mockapi

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
)

// collection はIDをキーにしたリソースの集合です。ロックはServer側で取ります
type collection[T any] struct {
	items map[int]T
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{items: map[int]T{}}
}

// list はID順に返します
func (c *collection[T]) list() []T {
	ids := make([]int, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.items[id])
	}
	return out
}

func (c *collection[T]) get(id int) (T, bool) {
	v, ok := c.items[id]
	return v, ok
}

func (c *collection[T]) put(id int, v T) {
	c.items[id] = v
}

func (c *collection[T]) remove(id int) bool {
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	return true
}

// builder はリクエストからリソースを作ります。ロックを保持した状態で呼ばれます
type builder[T, R any] func(c *gin.Context, id int, req R) (T, error)

// registerCRUD は参照を公開、更新を認証必須で登録します
func registerCRUD[T, R any](s *Server, public, auth *gin.RouterGroup, path string, items *collection[T], build builder[T, R], wrap func([]T) any) {
	public.GET(path, listHandler(s, items, wrap))
	public.GET(path+"/:id", getHandler(s, items))
	auth.POST(path, createHandler(s, items, build))
	auth.PUT(path+"/:id", updateHandler(s, items, build))
	auth.DELETE(path+"/:id", deleteHandler(s, items))
}

func listHandler[T any](s *Server, items *collection[T], wrap func([]T) any) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		list := items.list()
		s.mu.Unlock()

		if wrap != nil {
			c.JSON(http.StatusOK, wrap(list))
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func getHandler[T any](s *Server, items *collection[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}

		s.mu.Lock()
		v, found := items.get(id)
		s.mu.Unlock()

		if !found {
			notFound(c)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

func createHandler[T, R any](s *Server, items *collection[T], build builder[T, R]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req R
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		id := s.allocID()
		v, err := build(c, id, req)
		if err != nil {
			badRequest(c, err)
			return
		}
		items.put(id, v)
		c.JSON(http.StatusCreated, v)
	}
}

func updateHandler[T, R any](s *Server, items *collection[T], build builder[T, R]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var req R
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		if _, found := items.get(id); !found {
			notFound(c)
			return
		}
		v, err := build(c, id, req)
		if err != nil {
			badRequest(c, err)
			return
		}
		items.put(id, v)
		c.JSON(http.StatusOK, v)
	}
}

func deleteHandler[T any](s *Server, items *collection[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}

		s.mu.Lock()
		removed := items.remove(id)
		s.mu.Unlock()

		if !removed {
			notFound(c)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
