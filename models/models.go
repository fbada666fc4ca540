package models

import (
	"time"

	"github.com/google/uuid"
)

// RestaurantIdentity is the natural key used to deduplicate restaurants in
// the catalog: the scraped name plus the four address parts. All five fields
// must be known before a lookup or creation is attempted.
type RestaurantIdentity struct {
	Name        string
	Street      string
	HouseNumber string
	ZipCode     string
	City        string
}

// RestaurantCreate carries everything scraped from one restaurant detail
// page. Optional fields are nil when the page does not provide them; an
// empty string never stands in for "unknown".
type RestaurantCreate struct {
	Name        string
	Street      string
	HouseNumber string
	ZipCode     string
	City        string
	Picture     *string
	PhoneNumber *string
	Website     *string
	Email       *string

	// OpeningHours holds the free-text opening hours per weekday, Monday
	// first. The source page lists the seven slots positionally, without
	// weekday labels.
	OpeningHours [7]*string

	// LunchServed is the free-text window during which lunch menus are
	// served, e.g. "11:00 - 14:00".
	LunchServed *string
}

// Identity returns the catalog lookup key for the scraped restaurant.
func (r RestaurantCreate) Identity() RestaurantIdentity {
	return RestaurantIdentity{
		Name:        r.Name,
		Street:      r.Street,
		HouseNumber: r.HouseNumber,
		ZipCode:     r.ZipCode,
		City:        r.City,
	}
}

// MenuItemCreate is one line item of a daily menu. Price is in whole CZK as
// scraped; 0 means the page carried no parseable price, which is valid data,
// not an error marker. IsSoup reflects the HTML section the item came from,
// never the item's name.
type MenuItemCreate struct {
	Name   string
	Price  int
	Size   string
	IsSoup bool
}

// MenuCreate is one day's scraped menu for a restaurant. Item order follows
// the page.
type MenuCreate struct {
	RestaurantID uuid.UUID
	Date         time.Time
	Items        []MenuItemCreate
}
