package services

import (
	"errors"
	"fmt"

	"github.com/shashiranjanraj/devburger/pkg/rbac"
)

var (
	// ErrInvalidCredentials covers unknown emails and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrConflict is returned when a unique name or email is already taken.
	ErrConflict      = errors.New("already exists")
	ErrEmailTaken    = fmt.Errorf("email %w", ErrConflict)
	ErrCategoryTaken = fmt.Errorf("category %w", ErrConflict)
	// ErrNotFound is the parent of catalog lookups that miss.
	ErrNotFound         = errors.New("not found")
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	ErrProductNotFound  = fmt.Errorf("product %w", ErrNotFound)
	// ErrOrderNotFound is returned for unknown or malformed order ids.
	ErrOrderNotFound = errors.New("order not found")
	// ErrEmptyOrder is returned when none of the ordered products exist.
	ErrEmptyOrder = errors.New("order has no known products")
	// ErrForbidden is the admin gate's refusal.
	ErrForbidden = rbac.ErrForbidden
)
