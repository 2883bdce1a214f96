package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringRule(t *testing.T) {
	assert.False(t, String("").Valid())
	assert.False(t, String("ab").Min(3).Valid())
	assert.True(t, String("abc").Min(3).Max(3).Valid())
	assert.False(t, String("abcd").Max(3).Valid())
	assert.True(t, String("çãé").Max(3).Valid(), "length counts runes")
}

func TestAccountRules(t *testing.T) {
	assert.True(t, ValidName("Daniel LaRusso"))
	assert.False(t, ValidName("D"))
	assert.False(t, ValidName(strings.Repeat("a", NameMaxLength+1)))

	assert.True(t, ValidEmail("daniel@dojo.pt"))
	assert.True(t, ValidEmail("mr.miyagi+dojo@karate.school"))
	assert.False(t, ValidEmail("nope"))
	assert.False(t, ValidEmail("daniel@dojo"))

	assert.True(t, ValidPassword("wax-on-wax-off"))
	assert.False(t, ValidPassword("short"))
	assert.False(t, ValidPassword(strings.Repeat("x", PasswordMaxLength+1)))
}
