package task_test

import (
	"errors"
	"testing"
	"time"

	"github.com/calvinalkan/handled/internal/task"

	"github.com/google/go-cmp/cmp"
)

var baseNow = time.Date(2025, time.March, 10, 8, 30, 0, 0, time.UTC)

func Test_FromTranscription_Derives_Fields_When_Text_Given(t *testing.T) {
	t.Parallel()

	tomorrowAt2 := time.Date(2025, time.March, 11, 14, 0, 0, 0, time.UTC)

	for _, tt := range []struct {
		name string
		text string
		want task.Task
	}{
		{
			name: "groceries with checklist",
			text: "Pick up groceries on the way home - milk, eggs, and bread",
			want: task.Task{
				Summary:        "Pick up groceries on the way home - milk, eggs, and bread",
				FullText:       "Pick up groceries on the way home - milk, eggs, and bread",
				Kind:           task.KindAction,
				Reminder:       task.Anytime(),
				HasAudio:       true,
				HasChecklist:   true,
				ChecklistItems: []string{"milk", "eggs", "and bread"},
				CreatedAt:      baseNow,
			},
		},
		{
			name: "time mention schedules tomorrow afternoon",
			text: "Call mom to wish her happy birthday tomorrow at 2pm",
			want: task.Task{
				Summary:   "Call mom to wish her happy birthday tomorrow at 2pm",
				FullText:  "Call mom to wish her happy birthday tomorrow at 2pm",
				Kind:      task.KindAction,
				Reminder:  task.At(tomorrowAt2),
				HasAudio:  true,
				CreatedAt: baseNow,
			},
		},
		{
			name: "order intent gets a buy link",
			text: "Order new running shoes - need them for the marathon",
			want: task.Task{
				Summary:      "Order new running shoes - need them for the marathon",
				FullText:     "Order new running shoes - need them for the marathon",
				Kind:         task.KindAction,
				Reminder:     task.Anytime(),
				HasAudio:     true,
				HasChecklist: true,
				IsBuyIntent:  true,
				BuyLink:      "https://www.amazon.com/s?k=Order%20new%20running%20shoes%20-%20need%20them%20for%20the%20marathon",
				CreatedAt:    baseNow,
			},
		},
		{
			name: "plain text stays anytime",
			text: "Schedule dentist appointment for next week",
			want: task.Task{
				Summary:   "Schedule dentist appointment for next week",
				FullText:  "Schedule dentist appointment for next week",
				Kind:      task.KindAction,
				Reminder:  task.Anytime(),
				HasAudio:  true,
				CreatedAt: baseNow,
			},
		},
		{
			name: "lowercase buy uses text after it",
			text: "quickly buy oat milk",
			want: task.Task{
				Summary:     "quickly buy oat milk",
				FullText:    "quickly buy oat milk",
				Kind:        task.KindAction,
				Reminder:    task.Anytime(),
				HasAudio:    true,
				IsBuyIntent: true,
				BuyLink:     "https://www.amazon.com/s?k=oat%20milk",
				CreatedAt:   baseNow,
			},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := task.FromTranscription(tt.text, baseNow)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FromTranscription mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func Test_FromTranscription_Keeps_URI_Marks_When_Building_Buy_Link(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		text string
		want string
	}{
		{
			text: "Buy birthday present for Jake's party",
			want: "https://www.amazon.com/s?k=Buy%20birthday%20present%20for%20Jake's%20party",
		},
		{
			text: "Order coffee (decaf) & filters!",
			want: "https://www.amazon.com/s?k=Order%20coffee%20(decaf)%20%26%20filters!",
		},
		{
			text: "need to buy 2*AA batteries / charger",
			want: "https://www.amazon.com/s?k=2*AA%20batteries%20%2F%20charger",
		},
	} {
		got := task.FromTranscription(tt.text, baseNow).BuyLink
		if got != tt.want {
			t.Errorf("BuyLink(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func Test_Summarize_Truncates_When_Text_Long(t *testing.T) {
	t.Parallel()

	exact := "123456789012345678901234567890123456789012345678901234567890"
	long := exact + "x"

	if got := task.Summarize(exact); got != exact {
		t.Errorf("Summarize(60 runes) = %q, want unchanged", got)
	}

	want := exact[:57] + "..."
	if got := task.Summarize(long); got != want {
		t.Errorf("Summarize(61 runes) = %q, want %q", got, want)
	}
}

func Test_SnoozeUntil_Computes_Time_When_Duration_Valid(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 31, 22, 50, 0, 0, time.UTC)

	for _, tt := range []struct {
		duration string
		want     time.Time
	}{
		{task.Snooze15Min, time.Date(2025, time.March, 31, 23, 5, 0, 0, time.UTC)},
		{task.Snooze1Hr, time.Date(2025, time.March, 31, 23, 50, 0, 0, time.UTC)},
		{task.SnoozeTomorrow, time.Date(2025, time.April, 1, 9, 0, 0, 0, time.UTC)},
	} {
		t.Run(tt.duration, func(t *testing.T) {
			t.Parallel()

			got, err := task.SnoozeUntil(tt.duration, now)
			if err != nil {
				t.Fatalf("SnoozeUntil(%q): %v", tt.duration, err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("SnoozeUntil(%q) = %v, want %v", tt.duration, got, tt.want)
			}
		})
	}

	_, err := task.SnoozeUntil("2h", now)
	if !errors.Is(err, task.ErrInvalidSnooze) {
		t.Errorf("SnoozeUntil(2h) err = %v, want ErrInvalidSnooze", err)
	}
}

func Test_Reminder_Validate_Rejects_Bad_Reminders_When_Checked(t *testing.T) {
	t.Parallel()

	if err := task.At(baseNow).Validate(); err != nil {
		t.Errorf("specific reminder: %v", err)
	}

	if err := task.Anytime().Validate(); err != nil {
		t.Errorf("anytime reminder: %v", err)
	}

	if err := (task.Reminder{Type: task.ReminderSpecific}).Validate(); !errors.Is(err, task.ErrReminderTimeMissing) {
		t.Errorf("zero specific reminder err = %v, want ErrReminderTimeMissing", err)
	}

	if err := task.At(time.Date(3000, time.January, 1, 10, 0, 0, 0, time.UTC)).Validate(); !errors.Is(err, task.ErrReminderOutOfRange) {
		t.Errorf("year 3000 reminder err = %v, want ErrReminderOutOfRange", err)
	}

	if err := task.At(time.Date(1600, time.January, 1, 10, 0, 0, 0, time.UTC)).Validate(); !errors.Is(err, task.ErrReminderOutOfRange) {
		t.Errorf("year 1600 reminder err = %v, want ErrReminderOutOfRange", err)
	}

	if err := (task.Reminder{Type: "later"}).Validate(); !errors.Is(err, task.ErrInvalidReminderType) {
		t.Errorf("unknown reminder err = %v, want ErrInvalidReminderType", err)
	}
}
