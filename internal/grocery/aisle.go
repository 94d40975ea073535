// Package grocery sorts shopping items into store aisles for printing.
package grocery

import (
	"sort"
	"strings"
	"unicode"

	"github.com/dukerupert/familyhub/internal/model"
)

const (
	AisleProduce = "Produce"
	AisleDairy   = "Dairy & Eggs"
	AisleMeat    = "Meat & Seafood"
	AisleBakery  = "Bakery"
	AisleSpices  = "Spices & Baking"
	AislePantry  = "Pantry"
	AisleFrozen  = "Frozen"
	AisleDrinks  = "Beverages"
	AisleOther   = "Other"
)

// Aisles in walking order. Other is always last.
var Aisles = []string{
	AisleProduce, AisleBakery, AisleMeat, AisleDairy, AisleSpices, AislePantry, AisleFrozen, AisleDrinks, AisleOther,
}

type keyword struct {
	word  string
	aisle string
}

// Multi-word phrases come before the single words they contain.
var keywords = []keyword{
	{"ice cream", AisleFrozen},
	{"frozen", AisleFrozen},
	{"peanut butter", AislePantry},
	{"coconut milk", AislePantry},
	{"olive oil", AislePantry},
	{"soy sauce", AislePantry},
	{"tomato sauce", AislePantry},
	{"tomato paste", AislePantry},
	{"baking powder", AisleSpices},
	{"baking soda", AisleSpices},
	{"brown sugar", AisleSpices},
	{"black pepper", AisleSpices},
	{"chili powder", AisleSpices},
	{"bell pepper", AisleProduce},
	{"green onion", AisleProduce},
	{"sweet potato", AisleProduce},
	{"ground beef", AisleMeat},
	{"ground turkey", AisleMeat},
	{"sour cream", AisleDairy},
	{"cream cheese", AisleDairy},
	{"heavy cream", AisleDairy},
	{"orange juice", AisleDrinks},

	{"chicken", AisleMeat},
	{"beef", AisleMeat},
	{"pork", AisleMeat},
	{"bacon", AisleMeat},
	{"sausage", AisleMeat},
	{"turkey", AisleMeat},
	{"salmon", AisleMeat},
	{"shrimp", AisleMeat},
	{"tuna", AisleMeat},
	{"fish", AisleMeat},

	{"milk", AisleDairy},
	{"butter", AisleDairy},
	{"cheese", AisleDairy},
	{"parmesan", AisleDairy},
	{"mozzarella", AisleDairy},
	{"yogurt", AisleDairy},
	{"cream", AisleDairy},
	{"egg", AisleDairy},

	{"bread", AisleBakery},
	{"bun", AisleBakery},
	{"tortilla", AisleBakery},
	{"bagel", AisleBakery},
	{"pita", AisleBakery},

	{"flour", AisleSpices},
	{"sugar", AisleSpices},
	{"salt", AisleSpices},
	{"cumin", AisleSpices},
	{"paprika", AisleSpices},
	{"oregano", AisleSpices},
	{"cinnamon", AisleSpices},
	{"vanilla", AisleSpices},
	{"yeast", AisleSpices},

	{"rice", AislePantry},
	{"pasta", AislePantry},
	{"spaghetti", AislePantry},
	{"noodle", AislePantry},
	{"oats", AislePantry},
	{"bean", AislePantry},
	{"lentil", AislePantry},
	{"broth", AislePantry},
	{"stock", AislePantry},
	{"oil", AislePantry},
	{"vinegar", AislePantry},
	{"honey", AislePantry},
	{"syrup", AislePantry},
	{"sauce", AislePantry},
	{"salsa", AislePantry},

	{"lettuce", AisleProduce},
	{"spinach", AisleProduce},
	{"kale", AisleProduce},
	{"tomato", AisleProduce},
	{"potato", AisleProduce},
	{"onion", AisleProduce},
	{"garlic", AisleProduce},
	{"ginger", AisleProduce},
	{"carrot", AisleProduce},
	{"celery", AisleProduce},
	{"broccoli", AisleProduce},
	{"zucchini", AisleProduce},
	{"mushroom", AisleProduce},
	{"cucumber", AisleProduce},
	{"avocado", AisleProduce},
	{"lemon", AisleProduce},
	{"lime", AisleProduce},
	{"apple", AisleProduce},
	{"banana", AisleProduce},
	{"berries", AisleProduce},
	{"cilantro", AisleProduce},
	{"basil", AisleProduce},
	{"parsley", AisleProduce},
	{"pepper", AisleProduce},

	{"juice", AisleDrinks},
	{"coffee", AisleDrinks},
	{"tea", AisleDrinks},
	{"water", AisleDrinks},
}

var units = map[string]bool{
	"cup": true, "cups": true, "tbsp": true, "tablespoon": true, "tablespoons": true,
	"tsp": true, "teaspoon": true, "teaspoons": true, "oz": true, "ounce": true, "ounces": true,
	"lb": true, "lbs": true, "pound": true, "pounds": true, "g": true, "kg": true, "ml": true, "l": true,
	"clove": true, "cloves": true, "can": true, "cans": true, "pinch": true, "bunch": true,
	"slice": true, "slices": true, "large": true, "medium": true, "small": true, "of": true,
}

// SplitQuantity separates a leading amount and unit from an ingredient line:
// "2 cups flour" yields ("2 cups", "flour"). Lines without a leading number
// come back whole as the name.
func SplitQuantity(line string) (quantity, name string) {
	fields := strings.Fields(line)
	i := 0
	for i < len(fields) && isAmount(fields[i]) {
		i++
	}
	if i == 0 {
		return "", strings.TrimSpace(line)
	}
	for i < len(fields) && units[strings.ToLower(strings.Trim(fields[i], ".,"))] {
		i++
	}
	if i == len(fields) {
		return "", strings.TrimSpace(line)
	}
	return strings.Join(fields[:i], " "), strings.Join(fields[i:], " ")
}

func isAmount(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '/' && r != '.' && r != '-' && !unicode.Is(unicode.No, r) {
			return false
		}
	}
	return s != ""
}

// Aisle classifies an ingredient line or item name. Matching is
// case-insensitive on the name with any quantity removed.
func Aisle(item string) string {
	_, name := SplitQuantity(item)
	name = strings.ToLower(name)
	if name == "" {
		return AisleOther
	}
	for _, k := range keywords {
		if strings.Contains(name, k.word) {
			return k.aisle
		}
	}
	return AisleOther
}

// Section is one aisle's worth of items.
type Section struct {
	Aisle string
	Items []model.ShoppingItem
}

// GroupByAisle buckets items by aisle in walking order, dropping empty
// aisles. Items keep their relative order within a section.
func GroupByAisle(items []model.ShoppingItem) []Section {
	rank := make(map[string]int, len(Aisles))
	for i, a := range Aisles {
		rank[a] = i
	}

	buckets := make(map[string][]model.ShoppingItem)
	for _, it := range items {
		a := Aisle(it.Name)
		buckets[a] = append(buckets[a], it)
	}

	sections := make([]Section, 0, len(buckets))
	for a, its := range buckets {
		sections = append(sections, Section{Aisle: a, Items: its})
	}
	sort.Slice(sections, func(i, j int) bool { return rank[sections[i].Aisle] < rank[sections[j].Aisle] })
	return sections
}
