package domain

import "context"

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type CategoryRepository interface {
	FindAll(ctx context.Context) ([]Category, error)
	FindByNames(ctx context.Context, names []string) ([]Category, error)
}
