// internal/app/system/auditlog/auditlog.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/viralmotors/platform/internal/app/store/audit"
	"github.com/viralmotors/platform/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Logger records audit events to MongoDB (via audit.Store) and/or structured
// logs (via zap), controlled by a single mode string: "all" (db+log), "db",
// "log", or "off".
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	mode   string
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, mode string) *Logger {
	return &Logger{store: store, zapLog: zapLog, mode: mode}
}

// Log records an audit event. A nil Logger is a no-op, which lets tests pass
// nil instead of wiring the whole audit stack.
func (l *Logger) Log(ctx context.Context, ev audit.Event) {
	if l == nil || l.mode == "off" {
		return
	}

	if l.mode == "all" || l.mode == "log" {
		l.logToZap(ev)
	}
	if l.mode == "all" || l.mode == "db" {
		if err := l.store.Insert(ctx, ev); err != nil {
			l.zapLog.Error("audit event insert failed", zap.Error(err))
		}
	}
}

// SignIn records a successful or failed sign-in.
func (l *Logger) SignIn(ctx context.Context, r *http.Request, userID *primitive.ObjectID, success bool, reason string) {
	details := map[string]string{}
	if reason != "" {
		details["reason"] = reason
	}
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.TypeSignIn,
		Success:   success,
		ActorID:   userID,
		IP:        ratelimit.ClientIP(r),
		Details:   details,
	})
}

// ArticlePublished records a publish transition.
func (l *Logger) ArticlePublished(ctx context.Context, r *http.Request, actorID, articleID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.TypeArticlePublished,
		Success:   true,
		ActorID:   &actorID,
		SubjectID: &articleID,
		IP:        ratelimit.ClientIP(r),
	})
}

// ArticleArchived records an archive transition.
func (l *Logger) ArticleArchived(ctx context.Context, r *http.Request, actorID, articleID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.TypeArticleArchived,
		Success:   true,
		ActorID:   &actorID,
		SubjectID: &articleID,
		IP:        ratelimit.ClientIP(r),
	})
}

// RoleChanged records an admin changing a profile's role.
func (l *Logger) RoleChanged(ctx context.Context, r *http.Request, actorID, profileID primitive.ObjectID, newRole string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.TypeRoleChanged,
		Success:   true,
		ActorID:   &actorID,
		SubjectID: &profileID,
		IP:        ratelimit.ClientIP(r),
		Details:   map[string]string{"role": newRole},
	})
}

func (l *Logger) logToZap(ev audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", ev.Category),
		zap.String("event_type", ev.EventType),
		zap.Bool("success", ev.Success),
		zap.String("ip", ev.IP),
	}
	if ev.ActorID != nil {
		fields = append(fields, zap.String("actor_id", ev.ActorID.Hex()))
	}
	if ev.SubjectID != nil {
		fields = append(fields, zap.String("subject_id", ev.SubjectID.Hex()))
	}
	for k, v := range ev.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if ev.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}
