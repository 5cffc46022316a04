package routes

import "net/http"

// Group organizes routes under a common prefix. Child groups nest
// beneath the parent prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, "", group)
	}
}

func registerGroup(mux *http.ServeMux, parent string, group Group) {
	prefix := parent + group.Prefix
	for _, route := range group.Routes {
		mux.HandleFunc(route.Method+" "+prefix+route.Pattern, route.Handler)
	}
	for _, child := range group.Children {
		registerGroup(mux, prefix, child)
	}
}
