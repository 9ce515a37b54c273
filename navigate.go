package authflow

// Navigator receives the navigation requests flows make after a
// successful outcome. The library only names destinations; how a route
// change actually happens belongs to the embedding application.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to the [Navigator] interface.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// noopNavigator is installed when the caller supplies no Navigator, so
// flows can request navigation unconditionally.
type noopNavigator struct{}

func (noopNavigator) Navigate(string) {}
