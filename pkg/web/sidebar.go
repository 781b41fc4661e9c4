package web

type MenuItem struct {
	Name string
	URL  string
}

// menuItems are the links listed under the sidebar controls.
var menuItems = []MenuItem{
	{
		Name: "Models API",
		URL:  "/api/v1/models",
	},
	{
		Name: "Health",
		URL:  "/healthz",
	},
}
