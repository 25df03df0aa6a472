package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"wickandwax/internal/domain"
)

func TestEmail(t *testing.T) {
	got, ok := Email("  Asha@Example.com ")
	require.True(t, ok)
	require.Equal(t, "asha@example.com", got)
	_, ok = Email("nope@")
	require.False(t, ok)
}

func TestQtyClamps(t *testing.T) {
	require.Equal(t, 1, Qty("abc"))
	require.Equal(t, 1, Qty("0"))
	require.Equal(t, 7, Qty(" 7 "))
	require.Equal(t, 99, Qty("500"))
}

func TestPasswordMinimum(t *testing.T) {
	require.False(t, Password("12345"))
	require.True(t, Password("123456"))
}

func TestOTP(t *testing.T) {
	_, ok := OTP("1234")
	require.True(t, ok)
	_, ok = OTP("123")
	require.False(t, ok)
	_, ok = OTP("12a4")
	require.False(t, ok)
}

func TestRatingAndReviewText(t *testing.T) {
	_, ok := Rating("0")
	require.False(t, ok)
	n, ok := Rating("5")
	require.True(t, ok)
	require.Equal(t, 5, n)

	_, ok = ReviewText("   ")
	require.False(t, ok)
	_, ok = ReviewText(strings.Repeat("é", MaxReviewText))
	require.True(t, ok)
	_, ok = ReviewText(strings.Repeat("a", MaxReviewText+1))
	require.False(t, ok)
}

func TestAdminNumbers(t *testing.T) {
	_, ok := Percentage("0")
	require.False(t, ok)
	_, ok = Percentage("100")
	require.True(t, ok)
	_, ok = Positive("0")
	require.False(t, ok)
	_, ok = NonNegative("0")
	require.True(t, ok)
	_, ok = NonNegative("-1")
	require.False(t, ok)
}

func TestStructAddress(t *testing.T) {
	good := domain.Address{FullName: "Asha", Phone: "9876543210", Line1: "1 MG Road", City: "Pune", State: "MH", Pincode: "411001"}
	require.NoError(t, Struct(good))

	bad := good
	bad.Phone = "12345"
	bad.Pincode = "abc"
	err := Struct(bad)
	require.Error(t, err)
	require.ElementsMatch(t, []string{"Phone", "Pincode"}, Fields(err))
}
