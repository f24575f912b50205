// Package crud provides the generic data access and service layer shared by
// every catalog resource.
//
// A Schema describes how an entity struct maps onto a SQLite table. A
// Repository turns that schema into parameterised SQL for list, get,
// find-by, create, update and delete. A Service wraps any Store with an
// UpdatePolicy and optional hooks, which is where per-entity rules live:
//
//	repo := crud.NewRepository(db.DB, movieSchema)
//	svc := crud.NewService[Movie](repo, "movie", crud.ExactColumns(), crud.Hooks[Movie]{
//	    Validate: validateMovie,
//	}, logger)
//
// Errors a client can cause wrap ErrNotFound, ErrConflict or
// ErrInvalidArgument and carry a client-safe message (see Message).
package crud
