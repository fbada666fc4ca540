package catalog

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"menuscraper/models"
)

// Catalog is the PostgreSQL-backed store of restaurants and their daily
// menus that the scraping pipeline writes through.
type Catalog struct {
	db *sql.DB
}

func New(db *sql.DB) *Catalog {
	return &Catalog{db: db}
}

// FindRestaurantByIdentity looks a restaurant up by the exact combination of
// name and the four address fields. Soft-deleted rows never match.
func (c *Catalog) FindRestaurantByIdentity(identity models.RestaurantIdentity) (uuid.UUID, bool, error) {
	var id uuid.UUID
	err := c.db.QueryRow(`
		SELECT id FROM restaurants
		WHERE name = $1 AND street = $2 AND house_number = $3 AND zip_code = $4 AND city = $5
			AND deleted_at IS NULL`,
		identity.Name, identity.Street, identity.HouseNumber, identity.ZipCode, identity.City,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}
	return id, true, nil
}

// CreateRestaurant inserts a new catalog entry and returns its id.
func (c *Catalog) CreateRestaurant(r models.RestaurantCreate) (uuid.UUID, error) {
	id := uuid.New()
	_, err := c.db.Exec(`
		INSERT INTO restaurants (
			id, name, street, house_number, zip_code, city, picture, phone_number, website, email,
			monday_open, tuesday_open, wednesday_open, thursday_open, friday_open, saturday_open,
			sunday_open, lunch_served
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		id, r.Name, r.Street, r.HouseNumber, r.ZipCode, r.City, r.Picture, r.PhoneNumber,
		r.Website, r.Email, r.OpeningHours[0], r.OpeningHours[1], r.OpeningHours[2],
		r.OpeningHours[3], r.OpeningHours[4], r.OpeningHours[5], r.OpeningHours[6], r.LunchServed,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// CreateMenu writes a menu together with its items in one transaction. When
// the restaurant already has a live menu for the same date the call is a
// no-op returning the existing id, so re-scraping a day never duplicates it.
// The boolean reports whether a new menu was created.
func (c *Catalog) CreateMenu(m models.MenuCreate) (uuid.UUID, bool, error) {
	tx, err := c.db.Begin()
	if err != nil {
		return uuid.Nil, false, err
	}
	defer tx.Rollback()

	// the date goes over the wire as a plain YYYY-MM-DD string so the DATE
	// column comparison cannot shift across the session timezone
	date := m.Date.Format("2006-01-02")

	var existing uuid.UUID
	err = tx.QueryRow(`
		SELECT id FROM menus
		WHERE restaurant_id = $1 AND date = $2 AND deleted_at IS NULL`,
		m.RestaurantID, date,
	).Scan(&existing)
	if err == nil {
		return existing, false, nil
	}
	if err != sql.ErrNoRows {
		return uuid.Nil, false, err
	}

	id := uuid.New()
	if _, err := tx.Exec(`
		INSERT INTO menus (id, date, restaurant_id)
		VALUES ($1, $2, $3)`,
		id, date, m.RestaurantID,
	); err != nil {
		return uuid.Nil, false, err
	}

	for i, item := range m.Items {
		if _, err := tx.Exec(`
			INSERT INTO menu_items (id, menu_id, position, name, price, size, is_soup)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.New(), id, i, item.Name, item.Price, item.Size, item.IsSoup,
		); err != nil {
			return uuid.Nil, false, fmt.Errorf("inserting item %q: %w", item.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, false, err
	}
	return id, true, nil
}
