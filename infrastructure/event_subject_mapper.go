package infrastructure

import (
	"fmt"

	"gamewin/events"
)

var eventSubjects = map[events.EventType]string{
	events.EventTypeLedgerEntry:             "ledger.entry_recorded",
	events.EventTypeUserRegistered:          "users.registered",
	events.EventTypeTournamentCreated:       "tournaments.created",
	events.EventTypeTournamentJoined:        "tournaments.joined",
	events.EventTypeResultSettled:           "tournaments.result_settled",
	events.EventTypeTournamentStatusChanged: "tournaments.status_changed",
	events.EventTypeSpinCompleted:           "rewards.spin_completed",
	events.EventTypeDailyBonusClaimed:       "rewards.daily_bonus_claimed",
}

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	if subject, ok := eventSubjects[event.Type()]; ok {
		return subject
	}
	return fmt.Sprintf("unknown.%s", event.Type())
}

// GetAllSubjects returns all subjects that this service publishes to, in event order
func (m *EventSubjectMapper) GetAllSubjects() []string {
	subjects := make([]string, 0, len(events.AllEventTypes))
	for _, eventType := range events.AllEventTypes {
		subjects = append(subjects, eventSubjects[eventType])
	}
	return subjects
}
