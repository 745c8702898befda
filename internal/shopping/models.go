package shopping

// Listing is a raw shopping result as returned by the provider. All fields
// are optional; normalization into an Offer happens downstream.
type Listing struct {
	Title       string `json:"title"`
	Price       string `json:"price"`
	Link        string `json:"link"`
	ProductLink string `json:"product_link"`
}

// serpAPIShoppingResponse represents the raw SerpAPI google_shopping response.
type serpAPIShoppingResponse struct {
	ShoppingResults []Listing `json:"shopping_results"`
	SearchMetadata  struct {
		Status string `json:"status"`
	} `json:"search_metadata"`
	Error string `json:"error,omitempty"`
}
