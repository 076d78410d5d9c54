package service

import (
	"tableside/order-svc/internal/domain"

	"github.com/shopspring/decimal"
)

func spice(level domain.SpiceLevel) *domain.SpiceLevel { return &level }
func style(s domain.Style) *domain.Style               { return &s }

func seedDish(id, name, description, price string, category domain.Category, image string,
	dietary []string, level *domain.SpiceLevel, st *domain.Style, ingredients, allergens []string) domain.Dish {
	return domain.Dish{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       decimal.RequireFromString(price),
		Category:    category,
		ImageURL:    image,
		Dietary:     dietary,
		SpiceLevel:  level,
		Style:       st,
		Ingredients: ingredients,
		Allergens:   allergens,
		Available:   true,
	}
}

// DefaultMenu is the house menu loaded into an empty catalog.
func DefaultMenu() []domain.Dish {
	return []domain.Dish{
		seedDish("app-1", "Crispy Spring Rolls",
			"Golden fried rolls filled with fresh vegetables and glass noodles, served with sweet chili sauce",
			"8.99", domain.CategoryAppetizer, "https://images.unsplash.com/photo-1563245372-f21724e3856d?w=800&q=80",
			[]string{"vegetarian"}, spice(domain.SpiceMild), style(domain.StyleDry),
			[]string{"cabbage", "carrots", "glass noodles", "spring roll wrapper"}, []string{"gluten"}),
		seedDish("app-2", "Buffalo Wings",
			"Juicy chicken wings tossed in our signature buffalo sauce with blue cheese dip",
			"12.99", domain.CategoryAppetizer, "https://images.unsplash.com/photo-1608039829572-78524f79c4c7?w=800&q=80",
			[]string{}, spice(domain.SpiceSpicy), style(domain.StyleDry),
			[]string{"chicken wings", "buffalo sauce", "blue cheese"}, []string{"dairy"}),
		seedDish("app-3", "Bruschetta",
			"Toasted bread topped with fresh tomatoes, basil, garlic, and olive oil",
			"9.99", domain.CategoryAppetizer, "https://images.unsplash.com/photo-1572695157366-5e585ab2b69f?w=800&q=80",
			[]string{"vegetarian", "vegan"}, nil, nil,
			[]string{"tomatoes", "basil", "garlic", "olive oil", "bread"}, []string{"gluten"}),

		seedDish("main-1", "Grilled Salmon",
			"Fresh Atlantic salmon fillet grilled to perfection with lemon butter sauce",
			"24.99", domain.CategoryMain, "https://images.unsplash.com/photo-1467003909585-2f8a72700288?w=800&q=80",
			[]string{"gluten-free"}, spice(domain.SpiceMild), style(domain.StyleGravy),
			[]string{"salmon", "lemon", "butter", "herbs"}, []string{"fish", "dairy"}),
		seedDish("main-2", "Chicken Tikka Masala",
			"Tender chicken pieces in a rich, creamy tomato-based curry sauce",
			"18.99", domain.CategoryMain, "https://images.unsplash.com/photo-1565557623262-b51c2513a641?w=800&q=80",
			[]string{"gluten-free"}, spice(domain.SpiceMedium), style(domain.StyleGravy),
			[]string{"chicken", "tomatoes", "cream", "spices"}, []string{"dairy"}),
		seedDish("main-3", "Ribeye Steak",
			"12oz premium ribeye cooked to your preference with garlic herb butter",
			"32.99", domain.CategoryMain, "https://images.unsplash.com/photo-1558030006-450675393462?w=800&q=80",
			[]string{"gluten-free"}, nil, style(domain.StyleDry),
			[]string{"ribeye steak", "garlic", "herbs", "butter"}, []string{"dairy"}),
		seedDish("main-4", "Vegetable Pad Thai",
			"Classic Thai noodles with tofu, vegetables, and peanuts in tamarind sauce",
			"15.99", domain.CategoryMain, "https://images.unsplash.com/photo-1559314809-0d155014e29e?w=800&q=80",
			[]string{"vegetarian", "vegan"}, spice(domain.SpiceMedium), style(domain.StyleDry),
			[]string{"rice noodles", "tofu", "vegetables", "peanuts", "tamarind"}, []string{"peanuts", "soy"}),

		seedDish("side-1", "Garlic Mashed Potatoes",
			"Creamy mashed potatoes infused with roasted garlic",
			"5.99", domain.CategorySide, "https://images.unsplash.com/photo-1612874742237-6526221588e3?w=800&q=80",
			[]string{"vegetarian", "gluten-free"}, nil, style(domain.StyleGravy),
			[]string{"potatoes", "garlic", "butter", "cream"}, []string{"dairy"}),
		seedDish("side-2", "Steamed Vegetables",
			"Seasonal vegetables lightly steamed with olive oil",
			"4.99", domain.CategorySide, "https://images.unsplash.com/photo-1540420773420-3366772f4999?w=800&q=80",
			[]string{"vegetarian", "vegan", "gluten-free"}, nil, nil,
			[]string{"broccoli", "carrots", "zucchini", "olive oil"}, []string{}),
		seedDish("side-3", "Truffle Fries",
			"Crispy french fries drizzled with truffle oil and parmesan",
			"7.99", domain.CategorySide, "https://images.unsplash.com/photo-1573080496219-bb080dd4f877?w=800&q=80",
			[]string{"vegetarian"}, nil, style(domain.StyleDry),
			[]string{"potatoes", "truffle oil", "parmesan"}, []string{"dairy"}),

		seedDish("drink-1", "Fresh Lemonade", "House-made lemonade with fresh mint",
			"4.99", domain.CategoryDrink, "/assets/fresh-lemonade.jpg",
			[]string{"vegetarian", "vegan", "gluten-free"}, nil, nil,
			[]string{"lemon", "sugar", "mint", "water"}, []string{}),
		seedDish("drink-2", "Mango Lassi", "Traditional Indian yogurt drink blended with fresh mango",
			"5.99", domain.CategoryDrink, "/assets/mango-lassi.jpg",
			[]string{"vegetarian", "gluten-free"}, nil, nil,
			[]string{"yogurt", "mango", "sugar", "cardamom"}, []string{"dairy"}),
		seedDish("drink-3", "Craft Beer Selection", "Ask your server for our rotating selection of local craft beers",
			"7.99", domain.CategoryDrink, "/assets/craft-beer.jpg",
			[]string{}, nil, nil,
			[]string{"varies by selection"}, []string{"gluten"}),

		seedDish("dessert-1", "Chocolate Lava Cake",
			"Warm chocolate cake with a molten center, served with vanilla ice cream",
			"8.99", domain.CategoryDessert, "https://images.unsplash.com/photo-1624353365286-3f8d62daad51?w=800&q=80",
			[]string{"vegetarian"}, nil, nil,
			[]string{"chocolate", "eggs", "flour", "butter", "vanilla ice cream"}, []string{"gluten", "dairy", "eggs"}),
		seedDish("dessert-2", "Tiramisu",
			"Classic Italian dessert with layers of coffee-soaked ladyfingers and mascarpone",
			"9.99", domain.CategoryDessert, "https://images.unsplash.com/photo-1571877227200-a0d98ea607e9?w=800&q=80",
			[]string{"vegetarian"}, nil, nil,
			[]string{"ladyfingers", "coffee", "mascarpone", "cocoa"}, []string{"gluten", "dairy", "eggs"}),
		seedDish("dessert-3", "Fresh Fruit Platter", "Seasonal fresh fruits artfully arranged",
			"7.99", domain.CategoryDessert, "https://images.unsplash.com/photo-1546548970-71785318a17b?w=800&q=80",
			[]string{"vegetarian", "vegan", "gluten-free"}, nil, nil,
			[]string{"seasonal fruits"}, []string{}),
	}
}

// DefaultCategories holds the presentation of each fixed category.
func DefaultCategories() []domain.CategoryInfo {
	return []domain.CategoryInfo{
		{ID: domain.CategoryAppetizer, DisplayName: "Appetizers", Icon: "🥗"},
		{ID: domain.CategoryMain, DisplayName: "Main Course", Icon: "🍽️"},
		{ID: domain.CategorySide, DisplayName: "Sides", Icon: "🥔"},
		{ID: domain.CategoryDrink, DisplayName: "Drinks", Icon: "🍹"},
		{ID: domain.CategoryDessert, DisplayName: "Desserts", Icon: "🍰"},
	}
}
