package model

import (
	"encoding/json"
	"testing"
)

func TestParseOrZero(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   any
		want float64
	}{
		{in: 250.0, want: 250},
		{in: 12, want: 12},
		{in: " 45.5 ", want: 45.5},
		{in: "1인분", want: 0},
		{in: "", want: 0},
		{in: "NaN", want: 0},
		{in: true, want: 0},
		{in: nil, want: 0},
		{in: Number(3), want: 3},
	}
	for _, tc := range cases {
		if got := ParseOrZero(tc.in); got != tc.want {
			t.Fatalf("ParseOrZero(%#v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFoodItemDecodesTextNumbers(t *testing.T) {
	t.Parallel()
	var item FoodItem
	raw := `{"id":"a","name":"닭가슴살","weight":"150","kcal":250,"carb":"","protein":"45","fat":5,"sodium":null}`
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		t.Fatalf("decode food item: %v", err)
	}
	if item.Weight != 150 || item.Kcal != 250 || item.Carb != 0 || item.Protein != 45 || item.Fat != 5 || item.Sodium != 0 {
		t.Fatalf("unexpected decoded item: %+v", item)
	}
}

func TestMealSlotValid(t *testing.T) {
	t.Parallel()
	if !Breakfast.Valid() || !Other.Valid() {
		t.Fatalf("expected enumeration slots to be valid")
	}
	if MealSlot("brunch").Valid() {
		t.Fatalf("expected unknown slot to be invalid")
	}
}
