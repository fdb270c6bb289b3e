package models

// HomeSection is a titled group of resources on the homepage
type HomeSection struct {
	Key       string         `json:"key"`
	Title     string         `json:"title"`
	Href      string         `json:"href"`
	Resources []ResourceCard `json:"resources"`
}

// HomePage is the homepage payload
type HomePage struct {
	FeaturedLists []HomeSection `json:"featuredLists"`
	GradeSections []HomeSection `json:"gradeSections"`
}

// ContactRequest is a message sent through the contact form
type ContactRequest struct {
	Name    string `json:"name" validate:"max=100"`
	Email   string `json:"email" validate:"email,max=255"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"max=5000"`
}
