package domain

// CatalogItem is a bookable service with its fixed price.
type CatalogItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

var catalog = []CatalogItem{
	{ID: "laundry", Name: "Express Laundry", Price: 15000, Description: "Cuci, kering, dan lipat"},
	{ID: "gallon", Name: "Gallon Delivery", Price: 10000, Description: "Antar galon air minum"},
	{ID: "lamp", Name: "Lamp Replacement", Price: 25000, Description: "Ganti lampu dan perbaikan listrik ringan"},
	{ID: "cleaning", Name: "Room Cleaning", Price: 40000, Description: "Bersih-bersih kamar lengkap"},
	{ID: "shopping", Name: "Shopping Assistant", Price: 20000, Description: "Belanja kebutuhan sehari-hari"},
}

var timeSlots = []string{
	"08:00", "09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00", "17:00", "18:00",
}

// Catalog returns a copy of the bookable services.
func Catalog() []CatalogItem {
	out := make([]CatalogItem, len(catalog))
	copy(out, catalog)
	return out
}

// FindCatalogItem looks a service up by id.
func FindCatalogItem(id string) (CatalogItem, bool) {
	for _, it := range catalog {
		if it.ID == id {
			return it, true
		}
	}
	return CatalogItem{}, false
}

// TimeSlots returns the bookable time slots.
func TimeSlots() []string {
	out := make([]string, len(timeSlots))
	copy(out, timeSlots)
	return out
}

// IsTimeSlot reports whether slot is one of the bookable time slots.
func IsTimeSlot(slot string) bool {
	for _, s := range timeSlots {
		if s == slot {
			return true
		}
	}
	return false
}
