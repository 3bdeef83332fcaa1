package nudge_test

import (
	"errors"
	"testing"
	"time"

	"github.com/calvinalkan/handled/internal/nudge"
)

var now = time.Date(2025, time.June, 11, 12, 0, 0, 0, time.UTC)

const day = 24 * time.Hour

func ago(d time.Duration) time.Time {
	return now.Add(-d)
}

func Test_Select_Picks_Highest_Priority_Nudge_When_Inputs_Vary(t *testing.T) {
	t.Parallel()

	signedOut3 := nudge.Input{CaptureCount: 3}
	watchOff := nudge.Input{SignedIn: true}
	watchOn := nudge.Input{SignedIn: true, WatchCaptureEnabled: true}

	for _, tt := range []struct {
		name   string
		in     nudge.Input
		hist   nudge.History
		want   nudge.Type
		wantOK bool
	}{
		{name: "fresh signed out user sees nothing", in: nudge.Input{}, wantOK: false},
		{name: "two captures is not enough", in: nudge.Input{CaptureCount: 2}, wantOK: false},
		{name: "three captures asks to sign in", in: signedOut3, want: nudge.SignIn, wantOK: true},
		{name: "recording hides everything", in: nudge.Input{CaptureCount: 9, Recording: true}, wantOK: false},
		{name: "signed in without watch sees setup", in: watchOff, want: nudge.WatchSetup, wantOK: true},
		{name: "signed in user never sees sign in", in: nudge.Input{SignedIn: true, CaptureCount: 10}, want: nudge.WatchSetup, wantOK: true},
		{name: "watch on with no captures sees usage", in: watchOn, want: nudge.WatchUsage, wantOK: true},
		{
			name:   "watch on with one capture sees usage",
			in:     nudge.Input{SignedIn: true, WatchCaptureEnabled: true, WatchCaptures: 1},
			want:   nudge.WatchUsage,
			wantOK: true,
		},
		{
			name:   "two watch captures retires usage",
			in:     nudge.Input{SignedIn: true, WatchCaptureEnabled: true, WatchCaptures: 2},
			wantOK: false,
		},
		{
			name:   "sign in within cooldown",
			in:     signedOut3,
			hist:   nudge.History{nudge.SignIn: {DismissCount: 1, LastDismissedAt: ago(7*day - time.Second)}},
			wantOK: false,
		},
		{
			name:   "sign in cooldown elapsed",
			in:     signedOut3,
			hist:   nudge.History{nudge.SignIn: {DismissCount: 1, LastDismissedAt: ago(7 * day)}},
			want:   nudge.SignIn,
			wantOK: true,
		},
		{
			name:   "sign in suppressed after two dismissals",
			in:     signedOut3,
			hist:   nudge.History{nudge.SignIn: {DismissCount: 2, LastDismissedAt: ago(29 * day)}},
			wantOK: false,
		},
		{
			name:   "sign in suppression elapsed",
			in:     signedOut3,
			hist:   nudge.History{nudge.SignIn: {DismissCount: 2, LastDismissedAt: ago(30 * day)}},
			want:   nudge.SignIn,
			wantOK: true,
		},
		{
			name:   "watch setup cooldown",
			in:     watchOff,
			hist:   nudge.History{nudge.WatchSetup: {DismissCount: 1, LastDismissedAt: ago(2 * day)}},
			wantOK: false,
		},
		{
			name:   "watch setup suppressed after two",
			in:     watchOff,
			hist:   nudge.History{nudge.WatchSetup: {DismissCount: 2, LastDismissedAt: ago(13 * day)}},
			wantOK: false,
		},
		{
			name:   "watch setup back after suppression",
			in:     watchOff,
			hist:   nudge.History{nudge.WatchSetup: {DismissCount: 2, LastDismissedAt: ago(14 * day)}},
			want:   nudge.WatchSetup,
			wantOK: true,
		},
		{
			name:   "watch usage suppressed after a single dismissal",
			in:     watchOn,
			hist:   nudge.History{nudge.WatchUsage: {DismissCount: 1, LastDismissedAt: ago(10 * day)}},
			wantOK: false,
		},
		{
			name:   "watch usage back after suppression",
			in:     watchOn,
			hist:   nudge.History{nudge.WatchUsage: {DismissCount: 1, LastDismissedAt: ago(14 * day)}},
			want:   nudge.WatchUsage,
			wantOK: true,
		},
		{
			name:   "other type history does not interfere",
			in:     watchOff,
			hist:   nudge.History{nudge.SignIn: {DismissCount: 5, LastDismissedAt: ago(time.Hour)}},
			want:   nudge.WatchSetup,
			wantOK: true,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := nudge.NewEngine().Select(tt.in, tt.hist, now)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Select() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func Test_History_Dismiss_Counts_And_Stamps_When_Called_Twice(t *testing.T) {
	t.Parallel()

	hist := nudge.History{}
	hist.Dismiss(nudge.SignIn, ago(time.Hour))
	hist.Dismiss(nudge.SignIn, now)

	rec := hist[nudge.SignIn]
	if rec.DismissCount != 2 {
		t.Errorf("DismissCount = %d, want 2", rec.DismissCount)
	}

	if !rec.LastDismissedAt.Equal(now) {
		t.Errorf("LastDismissedAt = %v, want %v", rec.LastDismissedAt, now)
	}

	if !nudge.NewEngine().Suppressed(nudge.SignIn, hist, now.Add(29*day)) {
		t.Error("sign-in should be suppressed 29 days after the second dismissal")
	}
}

func Test_Select_Honors_Custom_Policies_When_Engine_Configured(t *testing.T) {
	t.Parallel()

	eng := &nudge.Engine{Policies: map[nudge.Type]nudge.Policy{
		nudge.SignIn: {Cooldown: time.Minute, Suppression: time.Hour, MaxDismissals: 5},
	}}

	hist := nudge.History{nudge.SignIn: {DismissCount: 1, LastDismissedAt: ago(2 * time.Minute)}}

	got, ok := eng.Select(nudge.Input{CaptureCount: 3}, hist, now)
	if !ok || got != nudge.SignIn {
		t.Errorf("Select() = (%q, %v), want sign-in", got, ok)
	}
}

func Test_ParseType_Rejects_Unknown_When_Name_Invalid(t *testing.T) {
	t.Parallel()

	for _, typ := range nudge.Types {
		got, err := nudge.ParseType(string(typ))
		if err != nil || got != typ {
			t.Errorf("ParseType(%q) = (%q, %v)", typ, got, err)
		}
	}

	if _, err := nudge.ParseType("power"); !errors.Is(err, nudge.ErrUnknownType) {
		t.Errorf("ParseType(power) err = %v, want ErrUnknownType", err)
	}
}

func Test_ContentFor_Mentions_Count_When_Enough_Captures(t *testing.T) {
	t.Parallel()

	if got := nudge.ContentFor(nudge.WatchSetup, 2).Title; got != "Capture without your phone" {
		t.Errorf("watch-setup title at 2 captures = %q", got)
	}

	if got := nudge.ContentFor(nudge.WatchSetup, 4).Title; got != "You've captured 4 things, try your wrist next" {
		t.Errorf("watch-setup title at 4 captures = %q", got)
	}

	if got := nudge.ContentFor(nudge.SignIn, 0).CTA; got != "Sign in" {
		t.Errorf("sign-in CTA = %q", got)
	}
}
