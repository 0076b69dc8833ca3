package utility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrettyJSON(t *testing.T) {
	t.Run("thụt lề 4 dấu cách và không escape HTML", func(t *testing.T) {
		out, err := PrettyJSON(map[string]string{"content": "<b>Dożynki</b>"})
		require.NoError(t, err)
		assert.Equal(t, "{\n    \"content\": \"<b>Dożynki</b>\"\n}", string(out))
	})
}

func TestReindentJSON(t *testing.T) {
	t.Run("giữ nguyên thứ tự key", func(t *testing.T) {
		out, err := ReindentJSON([]byte(`{"z":1,"a":[2]}`))
		require.NoError(t, err)
		assert.Equal(t, "{\n    \"z\": 1,\n    \"a\": [\n        2\n    ]\n}", string(out))
	})

	t.Run("JSON hỏng trả lỗi", func(t *testing.T) {
		_, err := ReindentJSON([]byte(`{"z":`))
		assert.Error(t, err)
	})
}

func TestGoProtect(t *testing.T) {
	t.Run("panic không lan ra ngoài", func(t *testing.T) {
		ran := false
		assert.NotPanics(t, func() {
			GoProtect(func() {
				ran = true
				panic("boom")
			})
		})
		assert.True(t, ran)
	})
}
