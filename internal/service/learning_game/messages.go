package learning_game

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Learner-facing texts.
const (
	MsgChooseOption     = "☝️ Сейчас нужно ВЫБРАТЬ вариант ответа"
	MsgTypeAnswer       = "✍️ Сейчас нужно ВВЕСТИ ответ в чат"
	MsgStaleQuestion    = "⌛ Этот вопрос уже неактуален"
	MsgAnswerInProgress = "⏳ Ответ уже проверяется"
	MsgStartHint        = "▶️ Выберите группу слов и нажмите «Учить», чтобы начать"
	MsgFinished         = "🤚 Изучение завершено"
	MsgNotVerified      = "не удалось проверить перевод"

	FinishLabel      = "🤚 Завершить"
	wrongButtonText  = "Ответ неверный"
	expectedLabel    = "Expected: "
	referenceLabel   = "Эталон: "
	chooseMoreFormat = "📚 Выберите хотя бы %d слов для изучения"
)

// MsgChooseMoreWords is the guidance shown when too few words are chosen.
func MsgChooseMoreWords(minWords int) string {
	return fmt.Sprintf(chooseMoreFormat, minWords)
}

// Button payloads.
const (
	PayloadFinish = "finish"
	PayloadNoop   = "noop"
	answerPrefix  = "a"
)

// AnswerPayload encodes a multiple-choice answer button.
func AnswerPayload(questionID, wordID uuid.UUID) string {
	return answerPrefix + ":" + questionID.String() + ":" + wordID.String()
}

// ParseAnswerPayload decodes a payload produced by AnswerPayload.
func ParseAnswerPayload(payload string) (questionID, wordID uuid.UUID, ok bool) {
	parts := strings.Split(payload, ":")
	if len(parts) != 3 || parts[0] != answerPrefix {
		return uuid.Nil, uuid.Nil, false
	}
	q, err := uuid.Parse(parts[1])
	if err != nil {
		return uuid.Nil, uuid.Nil, false
	}
	w, err := uuid.Parse(parts[2])
	if err != nil {
		return uuid.Nil, uuid.Nil, false
	}
	return q, w, true
}

func finishRow() []Button {
	return []Button{{Label: FinishLabel, Payload: PayloadFinish}}
}

func message(text string) RenderPayload {
	return RenderPayload{Text: text}
}
