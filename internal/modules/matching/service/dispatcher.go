package matching

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"anoa.com/lostfound/internal/entity"
	"anoa.com/lostfound/pkg/apperror"
	"github.com/google/uuid"
)

// DefaultNotifyMinScore keeps single weak-signal matches (one substring tier) quiet.
const DefaultNotifyMinScore = 30

const (
	MatchTitle       = "Possible match found!"
	matchBodyFormat  = "Someone found a %s in %s. Check if it's yours!"
	matchClickAction = "OPEN_MATCHES"
)

// PushDelivery delivers a push message to one user. Each call may fail on its own.
type PushDelivery interface {
	Send(ctx context.Context, recipientID uuid.UUID, title, body string, data map[string]string) error
}

// NotificationRecorder persists a notification record.
type NotificationRecorder interface {
	CreateNotification(ctx context.Context, notification *entity.Notification) error
}

// DispatchReport summarizes one dispatch invocation. Sent is the notified count.
type DispatchReport struct {
	MatchesFound   int `json:"matches_found"`
	Recipients     int `json:"recipients"`
	Sent           int `json:"notifications_sent"`
	Failed         int `json:"notifications_failed"`
	RecordFailures int `json:"record_failures"`
}

// Dispatcher fans match notifications out to the owners of matching lost reports.
type Dispatcher struct {
	push     PushDelivery
	recorder NotificationRecorder
	minScore int
	maxSends int
	log      *slog.Logger
}

// NewDispatcher creates a Dispatcher. maxSends caps delivery attempts per
// invocation; zero means no cap.
func NewDispatcher(log *slog.Logger, push PushDelivery, recorder NotificationRecorder, minScore, maxSends int) *Dispatcher {
	return &Dispatcher{
		push:     push,
		recorder: recorder,
		minScore: minScore,
		maxSends: maxSends,
		log:      log.With("component", "match_dispatcher"),
	}
}

// DispatchMatchNotifications notifies every distinct owner of a lost report in
// lostPool that scores above the dispatcher threshold against found.
//
// Candidates are visited in ranked order and each recipient is contacted once per
// call. A failed delivery or a failed record write is logged and the loop moves on.
// If ctx is cancelled the loop stops; what was already sent and stored stays.
func (d *Dispatcher) DispatchMatchNotifications(ctx context.Context, found *entity.ItemReport, lostPool []entity.ItemReport) (DispatchReport, error) {
	var report DispatchReport

	if err := validateSubject(found, entity.ItemKindFound); err != nil {
		return report, err
	}

	matches := FindMatches(found, lostPool, d.minScore)
	report.MatchesFound = len(matches)

	title, body := matchMessage(found)
	notified := make(map[uuid.UUID]struct{}, len(matches))

	for _, match := range matches {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("dispatch interrupted after %d recipients: %w", report.Recipients, err)
		}

		recipient := match.Item.UserID
		if _, seen := notified[recipient]; seen {
			continue
		}
		if d.maxSends > 0 && report.Recipients >= d.maxSends {
			d.log.InfoContext(ctx, "match notification quota reached",
				slog.String("found_item_id", found.ID.String()),
				slog.Int("max_sends", d.maxSends),
			)
			break
		}
		notified[recipient] = struct{}{}
		report.Recipients++

		lostID := match.Item.ID
		if err := d.push.Send(ctx, recipient, title, body, matchData(found.ID, lostID, match.Score)); err != nil {
			report.Failed++
			d.log.WarnContext(ctx, "match push delivery failed",
				slog.String("recipient_id", recipient.String()),
				slog.String("lost_item_id", lostID.String()),
				slog.String("found_item_id", found.ID.String()),
				slog.String("error", fmt.Errorf("%w: %w", apperror.ErrDeliveryFailure, err).Error()),
			)
		} else {
			report.Sent++
		}

		record := &entity.Notification{
			UserID:        recipient,
			SubjectItemID: found.ID,
			MatchedItemID: &lostID,
			Type:          entity.NotificationTypeItemMatch,
			Title:         title,
			Message:       body,
		}
		if err := d.recorder.CreateNotification(ctx, record); err != nil {
			report.RecordFailures++
			d.log.ErrorContext(ctx, "match notification record failed",
				slog.String("recipient_id", recipient.String()),
				slog.String("found_item_id", found.ID.String()),
				slog.String("error", err.Error()),
			)
		}
	}

	d.log.InfoContext(ctx, "match notifications dispatched",
		slog.String("found_item_id", found.ID.String()),
		slog.Int("matches", report.MatchesFound),
		slog.Int("recipients", report.Recipients),
		slog.Int("sent", report.Sent),
		slog.Int("failed", report.Failed),
	)

	return report, nil
}

func matchMessage(found *entity.ItemReport) (string, string) {
	return MatchTitle, fmt.Sprintf(matchBodyFormat, found.Name, found.Location)
}

func matchData(foundID, lostID uuid.UUID, score int) map[string]string {
	return map[string]string{
		"type":         entity.NotificationTypeItemMatch,
		"lost_item_id": lostID.String(),
		"post_id":      foundID.String(),
		"match_score":  strconv.Itoa(score),
		"click_action": matchClickAction,
	}
}
