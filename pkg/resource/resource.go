// Package resource shapes models into API output.
//
// Define a transformer per model to control exactly what JSON leaves the
// service:
//
//	type UserResource struct{}
//	func (UserResource) ToArray(u models.User) resource.Map {
//	    return resource.Map{"id": u.ID, "name": u.Name}
//	}
//
//	c.Success(resource.One(UserResource{}, user))
//	c.Success(resource.Many(UserResource{}, users))
package resource

// Map is the output of ToArray.
type Map = map[string]interface{}

// Transformer converts one model into a Map.
type Transformer[T any] interface {
	ToArray(v T) Map
}

// One transforms a single model.
func One[T any](t Transformer[T], v T) Map {
	return t.ToArray(v)
}

// Many transforms a slice. The result is never nil so it encodes as [].
func Many[T any](t Transformer[T], items []T) []Map {
	out := make([]Map, 0, len(items))
	for _, item := range items {
		out = append(out, t.ToArray(item))
	}
	return out
}

// With returns a copy of m with extra keys merged in.
func With(m Map, extra Map) Map {
	out := make(Map, len(m)+len(extra))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
