// seed-sample-data creates local SQLite databases for exercising the engine.
//
// Two databases are produced:
//
//   - sample.db: a small four-table shop schema (customers, products,
//     orders, order_items) with a handful of deterministic rows. Good for
//     demos and manual testing of schema exploration and generation.
//   - ecommerce.db: a wider schema (users, categories, products, orders,
//     order_items, reviews) useful for testing table selection when many
//     candidate tables exist.
//
// Usage: go run ./scripts/seed-sample-data [-dir <output-dir>]
//
// Existing database files in the output directory are replaced.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

func main() {
	dir := flag.String("dir", ".", "Directory to write the database files into")
	flag.Parse()

	samplePath := filepath.Join(*dir, "sample.db")
	if err := createSampleDB(samplePath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create %s: %v\n", samplePath, err)
		os.Exit(1)
	}
	fmt.Printf("Sample database created at: %s\n", samplePath)
	fmt.Printf("Connection string: sqlite:///%s\n", samplePath)

	ecommercePath := filepath.Join(*dir, "ecommerce.db")
	if err := createEcommerceDB(ecommercePath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create %s: %v\n", ecommercePath, err)
		os.Exit(1)
	}
	fmt.Printf("E-commerce database created at: %s\n", ecommercePath)
	fmt.Printf("Connection string: sqlite:///%s\n", ecommercePath)
}

// openFresh removes any existing file at path and opens a new database there.
func openFresh(path string) (*sql.DB, error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return sql.Open("sqlite", path)
}

func execAll(db *sql.DB, statements []string) error {
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:min(40, len(stmt))], err)
		}
	}
	return nil
}

func createSampleDB(path string) error {
	db, err := openFresh(path)
	if err != nil {
		return err
	}
	defer db.Close()

	err = execAll(db, []string{
		`CREATE TABLE customers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			city TEXT,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE products (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			category TEXT,
			price REAL NOT NULL,
			stock INTEGER DEFAULT 0
		)`,
		`CREATE TABLE orders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			customer_id INTEGER NOT NULL,
			order_date TEXT DEFAULT CURRENT_TIMESTAMP,
			total_amount REAL,
			status TEXT DEFAULT 'pending',
			FOREIGN KEY (customer_id) REFERENCES customers(id)
		)`,
		`CREATE TABLE order_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			order_id INTEGER NOT NULL,
			product_id INTEGER NOT NULL,
			quantity INTEGER NOT NULL,
			unit_price REAL NOT NULL,
			FOREIGN KEY (order_id) REFERENCES orders(id),
			FOREIGN KEY (product_id) REFERENCES products(id)
		)`,
	})
	if err != nil {
		return err
	}

	customers := [][]any{
		{"Alice Johnson", "alice@example.com", "New York"},
		{"Bob Smith", "bob@example.com", "Los Angeles"},
		{"Carol White", "carol@example.com", "Chicago"},
		{"David Brown", "david@example.com", "Houston"},
		{"Eve Davis", "eve@example.com", "Phoenix"},
	}
	if err := insertAll(db, "INSERT INTO customers (name, email, city) VALUES (?, ?, ?)", customers); err != nil {
		return err
	}

	products := [][]any{
		{"Laptop", "Electronics", 999.99, 50},
		{"Wireless Mouse", "Electronics", 29.99, 200},
		{"Keyboard", "Electronics", 79.99, 150},
		{"Monitor", "Electronics", 299.99, 75},
		{"Headphones", "Electronics", 149.99, 100},
		{"Desk Chair", "Furniture", 249.99, 30},
		{"Standing Desk", "Furniture", 449.99, 20},
		{"USB Cable", "Accessories", 9.99, 500},
		{"Webcam", "Electronics", 89.99, 80},
		{"Mouse Pad", "Accessories", 19.99, 300},
	}
	if err := insertAll(db, "INSERT INTO products (name, category, price, stock) VALUES (?, ?, ?, ?)", products); err != nil {
		return err
	}

	orders := [][]any{
		{1, "2024-01-15", 1079.98, "completed"},
		{1, "2024-02-20", 299.99, "completed"},
		{2, "2024-01-18", 109.98, "completed"},
		{2, "2024-03-01", 449.99, "shipped"},
		{3, "2024-02-10", 1249.98, "completed"},
		{3, "2024-03-05", 29.99, "pending"},
		{4, "2024-01-25", 179.98, "completed"},
		{5, "2024-02-28", 999.99, "shipped"},
	}
	if err := insertAll(db, "INSERT INTO orders (customer_id, order_date, total_amount, status) VALUES (?, ?, ?, ?)", orders); err != nil {
		return err
	}

	orderItems := [][]any{
		{1, 1, 1, 999.99},
		{1, 3, 1, 79.99},
		{2, 4, 1, 299.99},
		{3, 2, 2, 29.99},
		{3, 10, 1, 19.99},
		{4, 7, 1, 449.99},
		{5, 1, 1, 999.99},
		{5, 6, 1, 249.99},
		{6, 2, 1, 29.99},
		{7, 5, 1, 149.99},
		{7, 2, 1, 29.99},
		{8, 1, 1, 999.99},
	}
	return insertAll(db, "INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES (?, ?, ?, ?)", orderItems)
}

func createEcommerceDB(path string) error {
	db, err := openFresh(path)
	if err != nil {
		return err
	}
	defer db.Close()

	err = execAll(db, []string{
		`CREATE TABLE users (
			user_id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT UNIQUE NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			city TEXT,
			is_active INTEGER DEFAULT 1,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			last_login_at TEXT
		)`,
		`CREATE TABLE categories (
			category_id INTEGER PRIMARY KEY AUTOINCREMENT,
			category_name TEXT NOT NULL,
			description TEXT,
			is_active INTEGER DEFAULT 1,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE products (
			product_id INTEGER PRIMARY KEY AUTOINCREMENT,
			category_id INTEGER REFERENCES categories(category_id),
			product_name TEXT NOT NULL,
			price REAL NOT NULL,
			stock_quantity INTEGER DEFAULT 0,
			is_active INTEGER DEFAULT 1,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE orders (
			order_id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER REFERENCES users(user_id),
			order_date TEXT DEFAULT CURRENT_TIMESTAMP,
			total_amount REAL NOT NULL,
			status TEXT DEFAULT 'pending'
		)`,
		`CREATE TABLE order_items (
			order_item_id INTEGER PRIMARY KEY AUTOINCREMENT,
			order_id INTEGER REFERENCES orders(order_id),
			product_id INTEGER REFERENCES products(product_id),
			quantity INTEGER NOT NULL,
			unit_price REAL NOT NULL
		)`,
		`CREATE TABLE reviews (
			review_id INTEGER PRIMARY KEY AUTOINCREMENT,
			product_id INTEGER REFERENCES products(product_id),
			user_id INTEGER REFERENCES users(user_id),
			rating INTEGER NOT NULL,
			comment TEXT,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	})
	if err != nil {
		return err
	}

	users := [][]any{
		{"john.smith@example.com", "John", "Smith", "New York", 1, "2024-01-02", "2024-06-01"},
		{"sarah.johnson@example.com", "Sarah", "Johnson", "Los Angeles", 1, "2024-01-10", "2024-05-20"},
		{"michael.williams@example.com", "Michael", "Williams", "Chicago", 1, "2024-02-03", "2024-06-10"},
		{"emily.brown@example.com", "Emily", "Brown", "Houston", 0, "2024-02-14", nil},
		{"david.jones@example.com", "David", "Jones", "Phoenix", 1, "2024-03-01", "2024-06-12"},
		{"lisa.garcia@example.com", "Lisa", "Garcia", "Philadelphia", 1, "2024-03-22", "2024-04-30"},
	}
	if err := insertAll(db, "INSERT INTO users (email, first_name, last_name, city, is_active, created_at, last_login_at) VALUES (?, ?, ?, ?, ?, ?, ?)", users); err != nil {
		return err
	}

	categories := [][]any{
		{"Electronics", "Phones, computers and accessories"},
		{"Home & Kitchen", "Appliances and household goods"},
		{"Sports", "Sporting goods and outdoor gear"},
	}
	if err := insertAll(db, "INSERT INTO categories (category_name, description) VALUES (?, ?)", categories); err != nil {
		return err
	}

	products := [][]any{
		{1, "Smartphone X", 799.00, 120},
		{1, "Bluetooth Speaker", 59.99, 340},
		{1, "4K Monitor", 329.50, 60},
		{2, "Espresso Machine", 249.00, 45},
		{2, "Air Fryer", 119.99, 90},
		{3, "Yoga Mat", 24.99, 400},
		{3, "Trail Running Shoes", 139.95, 75},
	}
	if err := insertAll(db, "INSERT INTO products (category_id, product_name, price, stock_quantity) VALUES (?, ?, ?, ?)", products); err != nil {
		return err
	}

	orders := [][]any{
		{1, "2024-04-02", 858.99, "completed"},
		{2, "2024-04-15", 249.00, "completed"},
		{3, "2024-05-01", 164.94, "shipped"},
		{5, "2024-05-20", 329.50, "completed"},
		{1, "2024-06-03", 119.99, "pending"},
		{6, "2024-06-07", 139.95, "completed"},
	}
	if err := insertAll(db, "INSERT INTO orders (user_id, order_date, total_amount, status) VALUES (?, ?, ?, ?)", orders); err != nil {
		return err
	}

	orderItems := [][]any{
		{1, 1, 1, 799.00},
		{1, 2, 1, 59.99},
		{2, 4, 1, 249.00},
		{3, 6, 2, 24.99},
		{3, 7, 1, 114.96},
		{4, 3, 1, 329.50},
		{5, 5, 1, 119.99},
		{6, 7, 1, 139.95},
	}
	if err := insertAll(db, "INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES (?, ?, ?, ?)", orderItems); err != nil {
		return err
	}

	reviews := [][]any{
		{1, 1, 5, "Great phone, battery lasts all day"},
		{1, 3, 4, nil},
		{4, 2, 5, "Makes excellent espresso"},
		{6, 3, 3, "A bit thin but does the job"},
		{7, 6, 5, "Very comfortable on rocky trails"},
	}
	return insertAll(db, "INSERT INTO reviews (product_id, user_id, rating, comment) VALUES (?, ?, ?, ?)", reviews)
}

func insertAll(db *sql.DB, query string, rows [][]any) error {
	stmt, err := db.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, row := range rows {
		if _, err := stmt.Exec(row...); err != nil {
			return err
		}
	}
	return nil
}
