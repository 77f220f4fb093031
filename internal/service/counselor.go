package service

import (
	"context"

	"therapath-portal/internal/model"
)

type Counselors struct {
	d Deps
}

// List returns the counselor roster ordered by name.
func (c *Counselors) List(ctx context.Context) ([]model.Counselor, error) {
	return c.d.Store.Counselors.List(ctx)
}
