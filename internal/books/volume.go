package books

// volumesResponse matches GET /volumes. Every field is optional upstream.
type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

type VolumeInfo struct {
	Title         string     `json:"title"`
	Authors       []string   `json:"authors"`
	Description   string     `json:"description"`
	ImageLinks    ImageLinks `json:"imageLinks"`
	PublishedDate string     `json:"publishedDate"`
	PageCount     *int       `json:"pageCount"`
	Categories    []string   `json:"categories"`
}

type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
}
