package service

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"eventhub_backend/internals/constants"
	eventModel "eventhub_backend/internals/features/events/event/model"
	"eventhub_backend/internals/features/events/participant/dto"
	"eventhub_backend/internals/features/events/participant/model"
	paymentModel "eventhub_backend/internals/features/payments/payment/model"
	userModel "eventhub_backend/internals/features/users/user/model"
	helper "eventhub_backend/internals/helpers"
	"eventhub_backend/internals/helpers/apperror"
	"eventhub_backend/internals/helpers/testdb"
)

func actorOf(u *userModel.User) helper.Actor {
	return helper.Actor{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func newUser(t *testing.T, db *gorm.DB) helper.Actor {
	t.Helper()
	return actorOf(testdb.User(t, db, constants.RoleUser))
}

func TestJoinFreeEventUntilFull(t *testing.T) {
	db := testdb.Open(t)
	svc := NewEventParticipantService(db)
	ctx := context.Background()
	_, host := testdb.Host(t, db)
	ev := testdb.Event(t, db, host, 0, 2)

	a, b, c := newUser(t, db), newUser(t, db), newUser(t, db)

	res, err := svc.Join(ctx, a, ev.ID)
	if err != nil {
		t.Fatalf("join A: %v", err)
	}
	if res.Participant.JoinStatus != model.JoinApproved || res.Participant.PaymentStatus != paymentModel.StatusPaid || res.Payment != nil {
		t.Fatalf("free join %+v", res)
	}
	got := testdb.Reload[eventModel.Event](t, db, ev.ID)
	if got.TotalParticipants != 1 || got.Status != eventModel.StatusOpen {
		t.Fatalf("after A: %d/%s", got.TotalParticipants, got.Status)
	}

	if _, err := svc.Join(ctx, b, ev.ID); err != nil {
		t.Fatalf("join B: %v", err)
	}
	got = testdb.Reload[eventModel.Event](t, db, ev.ID)
	if got.TotalParticipants != 2 || got.Status != eventModel.StatusFull {
		t.Fatalf("after B: %d/%s", got.TotalParticipants, got.Status)
	}

	_, err = svc.Join(ctx, c, ev.ID)
	if ae, ok := apperror.As(err); !ok || ae.Kind != apperror.KindBadRequest || ae.Message != "Event is FULL" {
		t.Fatalf("join C: %v", err)
	}
}

func TestJoinPaidEvent(t *testing.T) {
	db := testdb.Open(t)
	svc := NewEventParticipantService(db)
	ctx := context.Background()
	_, host := testdb.Host(t, db)
	ev := testdb.Event(t, db, host, 120000, 10)
	u := newUser(t, db)

	res, err := svc.Join(ctx, u, ev.ID)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if res.Participant.JoinStatus != model.JoinPending || res.Participant.PaymentStatus != paymentModel.StatusPending {
		t.Fatalf("participant %+v", res.Participant)
	}
	if res.Payment == nil || res.Payment.Amount != 120000 || res.Payment.PaymentStatus != paymentModel.StatusPending {
		t.Fatalf("payment %+v", res.Payment)
	}
	if got := testdb.Reload[eventModel.Event](t, db, ev.ID); got.TotalParticipants != 0 {
		t.Fatalf("totalParticipants = %d", got.TotalParticipants)
	}
}

func TestJoinRejections(t *testing.T) {
	db := testdb.Open(t)
	svc := NewEventParticipantService(db)
	ctx := context.Background()
	hostUser, host := testdb.Host(t, db)
	ev := testdb.Event(t, db, host, 0, 10)
	u := newUser(t, db)

	if _, err := svc.Join(ctx, u, ev.ID); err != nil {
		t.Fatal(err)
	}

	cancelled := testdb.Event(t, db, host, 0, 10)
	db.Model(cancelled).Update("status", eventModel.StatusCancelled)

	cases := []struct {
		name  string
		actor helper.Actor
		event *eventModel.Event
		kind  apperror.Kind
		msg   string
	}{
		{"duplicate", u, ev, apperror.KindBadRequest, "Already joined this event"},
		{"own event", actorOf(hostUser), ev, apperror.KindBadRequest, "You cannot join your own event"},
		{"cancelled", u, cancelled, apperror.KindBadRequest, "Event is CANCELLED"},
		{"missing", u, &eventModel.Event{}, apperror.KindNotFound, "Event not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Join(ctx, tc.actor, tc.event.ID)
			ae, ok := apperror.As(err)
			if !ok || ae.Kind != tc.kind || ae.Message != tc.msg {
				t.Fatalf("got %v", err)
			}
		})
	}
}

func TestJoinClearsHostFlag(t *testing.T) {
	db := testdb.Open(t)
	svc := NewEventParticipantService(db)
	_, host := testdb.Host(t, db)
	otherHostUser, _ := testdb.Host(t, db)
	ev := testdb.Event(t, db, host, 0, 10)

	if _, err := svc.Join(context.Background(), actorOf(otherHostUser), ev.ID); err != nil {
		t.Fatal(err)
	}
	got := testdb.Reload[userModel.User](t, db, otherHostUser.ID)
	if got.IsHost || got.Role != constants.RoleHost {
		t.Fatalf("isHost=%v role=%s", got.IsHost, got.Role)
	}
}

func TestSelfCancelPaidParticipation(t *testing.T) {
	db := testdb.Open(t)
	svc := NewEventParticipantService(db)
	ctx := context.Background()
	_, host := testdb.Host(t, db)
	ev := testdb.Event(t, db, host, 50000, 10)
	u := newUser(t, db)

	res, err := svc.Join(ctx, u, ev.ID)
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.Update(ctx, u, res.Participant.ID, dto.UpdateParticipantRequest{JoinStatus: model.JoinRejected})
	if !apperror.IsKind(err, apperror.KindForbidden) {
		t.Fatalf("participant rejecting: %v", err)
	}

	part, err := svc.Update(ctx, u, res.Participant.ID, dto.UpdateParticipantRequest{JoinStatus: model.JoinCancelled})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if part.JoinStatus != model.JoinCancelled || part.PaymentStatus != paymentModel.StatusCancelled {
		t.Fatalf("participant %s/%s", part.JoinStatus, part.PaymentStatus)
	}
	p := testdb.Reload[paymentModel.Payment](t, db, res.Payment.ID)
	if p.PaymentStatus != paymentModel.StatusCancelled {
		t.Fatalf("payment = %s", p.PaymentStatus)
	}
}

func TestHostRejectReleasesSeat(t *testing.T) {
	db := testdb.Open(t)
	svc := NewEventParticipantService(db)
	ctx := context.Background()
	hostUser, host := testdb.Host(t, db)
	otherHostUser, otherHost := testdb.Host(t, db)
	ev := testdb.Event(t, db, host, 0, 1)
	testdb.Event(t, db, otherHost, 0, 1)
	u := newUser(t, db)

	res, err := svc.Join(ctx, u, ev.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got := testdb.Reload[eventModel.Event](t, db, ev.ID); got.Status != eventModel.StatusFull {
		t.Fatalf("status = %s", got.Status)
	}

	reject := dto.UpdateParticipantRequest{JoinStatus: model.JoinRejected}
	if _, err := svc.Update(ctx, actorOf(otherHostUser), res.Participant.ID, reject); !apperror.IsKind(err, apperror.KindForbidden) {
		t.Fatalf("foreign host: %v", err)
	}

	part, err := svc.Update(ctx, actorOf(hostUser), res.Participant.ID, reject)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if part.JoinStatus != model.JoinRejected || part.PaymentStatus != paymentModel.StatusRejected {
		t.Fatalf("participant %s/%s", part.JoinStatus, part.PaymentStatus)
	}
	got := testdb.Reload[eventModel.Event](t, db, ev.ID)
	if got.TotalParticipants != 0 || got.Status != eventModel.StatusOpen {
		t.Fatalf("event %d/%s", got.TotalParticipants, got.Status)
	}
}

func TestDeleteByHost(t *testing.T) {
	db := testdb.Open(t)
	svc := NewEventParticipantService(db)
	ctx := context.Background()
	hostUser, host := testdb.Host(t, db)
	ev := testdb.Event(t, db, host, 0, 5)
	u := newUser(t, db)

	res, err := svc.Join(ctx, u, ev.ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, u, res.Participant.ID); !apperror.IsKind(err, apperror.KindForbidden) {
		t.Fatalf("participant delete: %v", err)
	}
	if err := svc.Delete(ctx, actorOf(hostUser), res.Participant.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := testdb.Reload[eventModel.Event](t, db, ev.ID); got.TotalParticipants != 0 {
		t.Fatalf("seat not released: %d", got.TotalParticipants)
	}
	if err := svc.Delete(ctx, actorOf(hostUser), res.Participant.ID); !apperror.IsKind(err, apperror.KindNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestRejoinUsesCurrentFee(t *testing.T) {
	db := testdb.Open(t)
	svc := NewEventParticipantService(db)
	ctx := context.Background()
	hostUser, host := testdb.Host(t, db)
	ev := testdb.Event(t, db, host, 1000, 5)
	u := newUser(t, db)

	first, err := svc.Join(ctx, u, ev.ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, actorOf(hostUser), first.Participant.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := db.Model(&eventModel.Event{}).Where("id = ?", ev.ID).Update("fee", 2000).Error; err != nil {
		t.Fatal(err)
	}

	second, err := svc.Join(ctx, u, ev.ID)
	if err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if second.Payment == nil || second.Payment.ID != first.Payment.ID {
		t.Fatalf("expected the cancelled payment row to be reused, got %+v", second.Payment)
	}
	stored := testdb.Reload[paymentModel.Payment](t, db, second.Payment.ID)
	if stored.Amount != 2000 || stored.PaymentStatus != paymentModel.StatusPending {
		t.Fatalf("payment amount=%v status=%s, want 2000 PENDING", stored.Amount, stored.PaymentStatus)
	}
	if stored.TransactionID == first.Payment.TransactionID {
		t.Fatal("transaction id not rotated")
	}
}

func TestListVisibilityAndFilter(t *testing.T) {
	db := testdb.Open(t)
	svc := NewEventParticipantService(db)
	ctx := context.Background()
	hostUser, host := testdb.Host(t, db)
	free := testdb.Event(t, db, host, 0, 5)
	paid := testdb.Event(t, db, host, 1000, 5)

	a, b := newUser(t, db), newUser(t, db)
	for _, j := range []struct {
		who helper.Actor
		ev  *eventModel.Event
	}{{a, free}, {a, paid}, {b, free}} {
		if _, err := svc.Join(ctx, j.who, j.ev.ID); err != nil {
			t.Fatal(err)
		}
	}
	admin := actorOf(testdb.User(t, db, constants.RoleAdmin))
	page := helper.Params{Page: 1, Limit: 10, SortBy: "createdAt", SortOrder: "asc"}

	count := func(actor helper.Actor, query map[string]string) int64 {
		t.Helper()
		f, err := helper.ParseFilter(query, dto.ParticipantFilterSpec)
		if err != nil {
			t.Fatal(err)
		}
		rows, total, err := svc.List(ctx, actor, f, page)
		if err != nil {
			t.Fatal(err)
		}
		if int64(len(rows)) != total {
			t.Fatalf("rows=%d total=%d", len(rows), total)
		}
		for _, r := range rows {
			if r.User == nil || r.Event == nil || r.Host == nil || r.Host.User == nil {
				t.Fatalf("relations not loaded: %+v", r)
			}
		}
		return total
	}

	if n := count(a, nil); n != 2 {
		t.Fatalf("participant A sees %d", n)
	}
	if n := count(actorOf(hostUser), nil); n != 3 {
		t.Fatalf("host sees %d", n)
	}
	if n := count(admin, map[string]string{"paymentStatus": "PENDING"}); n != 1 {
		t.Fatalf("pending payments %d", n)
	}
	if n := count(admin, map[string]string{"searchTerm": paid.Title}); n != 1 {
		t.Fatalf("search by title %d", n)
	}

	rows, _, err := svc.List(ctx, b, helper.Filter{}, page)
	if err != nil || len(rows) != 1 {
		t.Fatalf("B list: %v %d", err, len(rows))
	}
	if _, err := svc.GetByID(ctx, b, rows[0].ID); err != nil {
		t.Fatalf("own GetByID: %v", err)
	}
	if _, err := svc.GetByID(ctx, a, rows[0].ID); !apperror.IsKind(err, apperror.KindNotFound) {
		t.Fatalf("foreign GetByID: %v", err)
	}
}
