package client

import "strings"

// QuickAction is a canned prompt offered next to the free-text input.
type QuickAction struct {
	Name   string
	Prompt string
}

// QuickActions lists the fixed templates in display order.
var QuickActions = []QuickAction{
	{
		Name:   "E-commerce",
		Prompt: "Create a modern e-commerce website with a product catalog, shopping cart, and checkout process. Use a clean design with purple accents.",
	},
	{
		Name:   "Blog",
		Prompt: "Create a modern blog website with a clean layout, article cards, and responsive design. Include a hero section and about page.",
	},
	{
		Name:   "Portfolio",
		Prompt: "Create a modern portfolio website with a hero section, about section, projects showcase, and contact form. Use a dark theme with purple accents.",
	},
	{
		Name:   "Landing Page",
		Prompt: "Create a modern landing page with a hero section, features, testimonials, and call-to-action. Use gradients and smooth animations.",
	},
}

// QuickPrompt resolves an action name case-insensitively.
func QuickPrompt(name string) (string, bool) {
	for _, action := range QuickActions {
		if strings.EqualFold(action.Name, strings.TrimSpace(name)) {
			return action.Prompt, true
		}
	}
	return "", false
}
