package mcp

// registerTools adds the full Notion tool catalog. Order here is the order
// tools/list reports them in.
func (s *Server) registerTools() {
	s.registerSearchTools()
	s.registerPageTools()
	s.registerBlockTools()
	s.registerDatabaseTools()
}

// searchItem is the normalized summary returned for search results. Missing
// titles and URLs are left out of the JSON.
type searchItem struct {
	ID     string `json:"id"`
	Object string `json:"object"`
	Title  string `json:"title,omitempty"`
	URL    string `json:"url,omitempty"`
}

type searchOutput struct {
	Results []searchItem `json:"results"`
	HasMore bool         `json:"has_more"`
}
