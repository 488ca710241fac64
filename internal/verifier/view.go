package verifier

// Field is the logical name of a display region or profile element. Views
// map these onto whatever concrete UI they drive.
type Field string

const (
	FieldStatus         Field = "status"
	FieldRawData        Field = "raw_data"
	FieldServerResponse Field = "server_response"
	FieldProfile        Field = "profile"

	FieldName         Field = "name"
	FieldHandle       Field = "handle"
	FieldAvatar       Field = "avatar"
	FieldPremiumBadge Field = "premium_badge"
	FieldUserID       Field = "user_id"
	FieldLocale       Field = "locale"
	FieldCanWrite     Field = "can_write"
	FieldAccountType  Field = "account_type"
)

// ProfileFields lists the per-field elements inside the profile panel.
func ProfileFields() []Field {
	return []Field{
		FieldName,
		FieldHandle,
		FieldAvatar,
		FieldPremiumBadge,
		FieldUserID,
		FieldLocale,
		FieldCanWrite,
		FieldAccountType,
	}
}

// Tone is the visual state of the status indicator.
type Tone int

const (
	ToneNeutral Tone = iota
	ToneSuccess
	ToneError
)

func (t Tone) String() string {
	switch t {
	case ToneSuccess:
		return "success"
	case ToneError:
		return "error"
	default:
		return "neutral"
	}
}

// View is the UI surface the verifier drives. It only ever receives text and
// visibility mutations keyed by logical field name.
type View interface {
	SetText(field Field, text string)
	SetVisible(field Field, visible bool)
	SetTone(field Field, tone Tone)
}
