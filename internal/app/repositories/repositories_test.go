package repositories

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/dojo/internal/app/models"
	"github.com/yigit/dojo/internal/pkg/apperrors"
)

func TestGraduationWhere(t *testing.T) {
	level := models.BeltRank("blue")
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	slots := 1

	sql, args, err := psql.Select("id").From("graduations").
		Where(graduationWhere(models.GraduationFilter{Level: &level, DateFrom: &from, MinSlots: &slots})).
		ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "level = $1")
	assert.Contains(t, sql, "date >= $2")
	assert.Contains(t, sql, "available_slots >= $3")
	assert.Equal(t, []interface{}{level, from, slots}, args)

	assert.Empty(t, graduationWhere(models.GraduationFilter{}))
}

func TestGraduationOrder(t *testing.T) {
	assert.Equal(t, "id ASC", graduationOrder(models.GraduationFilter{}))
	assert.Equal(t, "id ASC", graduationOrder(models.GraduationFilter{SortBy: "location", SortDescending: true}))
	assert.Equal(t, "date DESC", graduationOrder(models.GraduationFilter{SortBy: "date", SortDescending: true}))
	assert.Equal(t, "available_slots ASC", graduationOrder(models.GraduationFilter{SortBy: "availableSlots"}))
	assert.Equal(t, "created_at ASC", graduationOrder(models.GraduationFilter{SortBy: "createdAt"}))

	byLevel := graduationOrder(models.GraduationFilter{SortBy: "level"})
	assert.Contains(t, byLevel, "array_position(ARRAY['white', 'yellow'")
	assert.Contains(t, byLevel, "'black']::text[], level::text) ASC")
}

func TestFeeWhere(t *testing.T) {
	status := models.FeeStatusLate
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	minAmount, maxAmount := 20.0, 80.0
	studentID := int64(7)
	method := models.PaymentCard

	sql, args, err := psql.Select("id").From("monthly_fees").
		Where(feeWhere(models.FeeFilter{
			Status: &status, DueFrom: &from, DueTo: &to,
			MinAmount: &minAmount, MaxAmount: &maxAmount,
			StudentID: &studentID, PaymentMethod: &method,
		})).
		ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "status = $1")
	assert.Contains(t, sql, "due_date >= $2")
	assert.Contains(t, sql, "due_date <= $3")
	assert.Contains(t, sql, "amount >= $4")
	assert.Contains(t, sql, "amount <= $5")
	assert.Contains(t, sql, "student_id = $6")
	assert.Contains(t, sql, "payment_method = $7")
	assert.Equal(t, []interface{}{status, from, to, minAmount, maxAmount, studentID, method}, args)

	assert.Empty(t, feeWhere(models.FeeFilter{}))
}

func TestFeeOrder(t *testing.T) {
	assert.Equal(t, "due_date DESC", feeOrder(models.FeeFilter{}))
	assert.Equal(t, "due_date ASC", feeOrder(models.FeeFilter{SortBy: "createdAt", SortAscending: true}))
	assert.Equal(t, "amount ASC", feeOrder(models.FeeFilter{SortBy: "amount", SortAscending: true}))
	assert.Equal(t, "status DESC", feeOrder(models.FeeFilter{SortBy: "status"}))
	assert.Equal(t, "payment_date DESC NULLS LAST", feeOrder(models.FeeFilter{SortBy: "paymentDate"}))
}

func TestStorageErr(t *testing.T) {
	err := storageErr(errors.New("conn refused"))
	assert.ErrorIs(t, err, apperrors.ErrStorage)
	assert.Contains(t, err.Error(), "conn refused")
}
