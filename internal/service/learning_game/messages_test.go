package learning_game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAnswerPayload(t *testing.T) {
	t.Parallel()
	qID, wordID := uuid.New(), uuid.New()

	gotQ, gotW, ok := ParseAnswerPayload(AnswerPayload(qID, wordID))
	assert.True(t, ok)
	assert.Equal(t, qID, gotQ)
	assert.Equal(t, wordID, gotW)

	for _, bad := range []string{"", PayloadFinish, PayloadNoop, "a:x:y", "b:" + qID.String() + ":" + wordID.String()} {
		_, _, ok := ParseAnswerPayload(bad)
		assert.False(t, ok, bad)
	}
}

func TestMsgChooseMoreWords(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "📚 Выберите хотя бы 5 слов для изучения", MsgChooseMoreWords(5))
}
