package model

import "time"

type MealSlot string

const (
	Breakfast MealSlot = "아침"
	Lunch     MealSlot = "점심"
	Dinner    MealSlot = "저녁"
	Other     MealSlot = "기타"
)

// MealSlots is the fixed order in which a day's meals are flattened.
var MealSlots = []MealSlot{Breakfast, Lunch, Dinner, Other}

func (s MealSlot) Valid() bool {
	for _, slot := range MealSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// BodyParts labels exercise records on the home screen grouping.
var BodyParts = []string{"가슴", "등", "하체", "어깨", "복근", "유산소", OtherPart}

// OtherPart collects records whose part is not one of BodyParts.
const OtherPart = "기타"

// DoseTimes are the time-of-day labels a medication can be scheduled at.
var DoseTimes = []string{"아침", "점심", "저녁", "자기 전"}

type FoodItem struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Name      string    `json:"name"`
	Weight    Number    `json:"weight"`
	Kcal      Number    `json:"kcal"`
	Carb      Number    `json:"carb"`
	Protein   Number    `json:"protein"`
	Fat       Number    `json:"fat"`
	Sodium    Number    `json:"sodium"`
}

type DayMeals map[MealSlot][]FoodItem

type MealStore map[string]DayMeals

type DietGoals struct {
	Kcal    Number `json:"kcal"`
	Carb    Number `json:"carb"`
	Protein Number `json:"protein"`
	Fat     Number `json:"fat"`
}

func DefaultDietGoals() DietGoals {
	return DietGoals{Kcal: 2000, Carb: 220, Protein: 140, Fat: 80}
}

const DefaultExerciseGoalMin = 60

type ExerciseRecord struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Name      string    `json:"name"`
	Part      string    `json:"part"`
	Date      string    `json:"date"`
	Duration  Number    `json:"duration"`
	Sets      string    `json:"sets,omitempty"`
	Reps      string    `json:"reps,omitempty"`
	Weight    string    `json:"weight,omitempty"`
	Favorite  bool      `json:"favorite,omitempty"`
}

type ExerciseStore map[string][]ExerciseRecord

type ManualExercise struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Name      string    `json:"name"`
	Part      string    `json:"part"`
	Duration  Number    `json:"duration"`
}

type FavoriteExercise struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	Name        string    `json:"name"`
	Part        string    `json:"part"`
	Duration    Number    `json:"duration"`
	MET         Number    `json:"met,omitempty"`
	Description string    `json:"description,omitempty"`
}

type Medication struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Name      string    `json:"name"`
	Type      string    `json:"type,omitempty"`
	Dosage    string    `json:"dosage,omitempty"`
	Usage     string    `json:"usage,omitempty"`
	Times     []string  `json:"times"`
	Checked   bool      `json:"checked"`
	Memo      string    `json:"memo,omitempty"`
}

type MedicationStore map[string][]Medication

type FavoriteMedication struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	Name       string    `json:"name"`
	Company    string    `json:"company"`
	Ingredient string    `json:"ingredient"`
	Dosage     string    `json:"dosage"`
	Usage      string    `json:"usage"`
	Image      string    `json:"image"`
}

type NotificationLog struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
	Time  string `json:"time"`
	Type  string `json:"type"`
}

type NotificationSettings struct {
	Diet       bool `json:"diet"`
	Medication bool `json:"medication"`
	Exercise   bool `json:"exercise"`
}

func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{Diet: true, Medication: true, Exercise: true}
}
