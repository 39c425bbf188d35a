package models

import "fmt"

type AlertKind string

const (
	AlertInvalidRadius     AlertKind = "invalidRadius"
	AlertMalformedDocument AlertKind = "malformedDocument"
	AlertFeatureLimit      AlertKind = "featureLimit"
)

// Alert - сообщение пользователю, которое поднимает поверхность карты.
type Alert struct {
	Kind     AlertKind `json:"kind"`
	Category string    `json:"category"`
	Message  string    `json:"message"`
}

// ============================================================
// Alert Constructors
// ============================================================

// RadiusSlot указывает, какой из радиусов не задан.
type RadiusSlot int

const (
	RadiusInner RadiusSlot = iota
	RadiusOuter
	RadiusBoth
)

func (s RadiusSlot) String() string {
	switch s {
	case RadiusOuter:
		return "outer"
	case RadiusBoth:
		return "both"
	}
	return "inner"
}

func RadiusAlert(slot RadiusSlot, double bool) Alert {
	msg := "Please enter a radius for the circle."
	if double {
		switch slot {
		case RadiusInner:
			msg = "Please enter a radius for the inner circle."
		case RadiusOuter:
			msg = "Please enter a radius for the outer circle."
		case RadiusBoth:
			msg = "Please enter a radius for both circles."
		}
	}
	return Alert{Kind: AlertInvalidRadius, Category: "error", Message: msg}
}

func MalformedDocumentAlert() Alert {
	return Alert{
		Kind:     AlertMalformedDocument,
		Category: "error",
		Message:  "The given geometry could not be displayed.",
	}
}

func FeatureLimitAlert(count int) Alert {
	msg := fmt.Sprintf("You have already drawn %d objects, please delete one of them before continuing!", count)
	if count == 1 {
		msg = "You have already drawn 1 object, please delete it before continuing!"
	}
	return Alert{Kind: AlertFeatureLimit, Category: "info", Message: msg}
}
