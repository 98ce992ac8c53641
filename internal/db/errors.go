package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/lib/pq"

	"shawedgym/internal/apperror"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNotNullViolation    = "23502"
	codeSerialization       = "40001"
	codeDeadlock            = "40P01"
	codeTooManyConnections  = "53300"
	codeAdminShutdown       = "57P01"
	codeQueryCanceled       = "57014"
	classConnection         = "08"
)

// Classify maps driver and pool errors onto the application taxonomy.
// Errors that are already classified pass through unchanged.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var ae *apperror.Error
	if errors.As(err, &ae) {
		return err
	}
	var qe *apperror.QuotaExceededError
	if errors.As(err, &qe) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		return apperror.NotFound(op, "record not found")
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == codeUniqueViolation:
			return &apperror.Error{Kind: apperror.KindConflict, Op: op, Message: uniqueMessage(pqErr), Err: err}
		case pqErr.Code == codeForeignKeyViolation:
			return &apperror.Error{Kind: apperror.KindNotFound, Op: op, Message: "referenced record not found", Err: err}
		case pqErr.Code == codeCheckViolation, pqErr.Code == codeNotNullViolation:
			return &apperror.Error{Kind: apperror.KindValidation, Op: op, Message: "value violates a data constraint", Err: err}
		case pqErr.Code == codeSerialization,
			pqErr.Code == codeDeadlock,
			pqErr.Code == codeTooManyConnections,
			pqErr.Code == codeAdminShutdown,
			pqErr.Code == codeQueryCanceled,
			pqErr.Code.Class() == classConnection:
			return apperror.Unavailable(op, err)
		}
		return apperror.Internal(op, err)
	}

	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, sql.ErrConnDone) {
		return apperror.Unavailable(op, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return apperror.Unavailable(op, err)
	}

	return apperror.Internal(op, err)
}

// IsUniqueViolation reports whether err is a unique violation on constraint.
// An empty constraint matches any unique violation.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != codeUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == codeForeignKeyViolation
}

func uniqueMessage(pqErr *pq.Error) string {
	switch pqErr.Constraint {
	case "subscription_plans_name_key":
		return "a plan with this name already exists"
	case "gyms_owner_name_key":
		return "you already own a gym with this name"
	case "users_email_key":
		return "email already registered"
	case "gym_subscriptions_one_active":
		return "gym already has an active subscription"
	}
	return "duplicate value"
}
