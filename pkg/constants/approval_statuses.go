package constants

// --- СТАТУСЫ СОГЛАСОВАНИЯ (коды ERP, поле StatusCode в Issues) ---
const (
	CodeWaitingPreviousLevel   = "01"
	CodePending                = "02"
	CodeApproved               = "03"
	CodeBlocked                = "04"
	CodeApprovedOtherApprover  = "05"
	CodeRejected               = "06"
	CodeRejectedBlockedByOther = "07"
)

// UI-статусы - закрытое множество, в котором живёт вся фильтрация.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// UIStatuses - порядок колонок канбан-доски.
var UIStatuses = []string{StatusPending, StatusApproved, StatusRejected}

// Подписи кодов ERP, как их показывает дашборд.
var CodeLabels = map[string]string{
	CodeWaitingPreviousLevel:   "Aguardando nível anterior",
	CodePending:                "Pendente",
	CodeApproved:               "Liberado",
	CodeBlocked:                "Bloqueado",
	CodeApprovedOtherApprover:  "Liberado outro aprov.",
	CodeRejected:               "Rejeitado",
	CodeRejectedBlockedByOther: "Rej/Bloq outro aprov.",
}

var codeToStatus = map[string]string{
	CodeWaitingPreviousLevel:   StatusPending,
	CodePending:                StatusPending,
	CodeApproved:               StatusApproved,
	CodeApprovedOtherApprover:  StatusApproved,
	CodeBlocked:                StatusRejected,
	CodeRejected:               StatusRejected,
	CodeRejectedBlockedByOther: StatusRejected,

	// идемпотентность: уже нормализованные значения проходят как есть
	StatusPending:  StatusPending,
	StatusApproved: StatusApproved,
	StatusRejected: StatusRejected,
}

// NormalizeStatus переводит код ERP в UI-статус.
// Неизвестный код трактуем как pending: заказ, который мы не смогли
// классифицировать, должен остаться на виду у согласующего, а не пропасть.
func NormalizeStatus(code string) string {
	if status, ok := codeToStatus[code]; ok {
		return status
	}
	return StatusPending
}

// IsUIStatus сообщает, входит ли значение в закрытое множество UI-статусов.
func IsUIStatus(status string) bool {
	return status == StatusPending || status == StatusApproved || status == StatusRejected
}

func CodeLabel(code string) string {
	if label, ok := CodeLabels[code]; ok {
		return label
	}
	return "Status desconhecido"
}
