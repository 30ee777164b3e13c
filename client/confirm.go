package client

// ConfirmFlow is the one confirmation abstraction every destructive action
// goes through: present Title/Message, run OnConfirm only when the user
// accepts.
type ConfirmFlow struct {
	Title     string
	Message   string
	OnConfirm func() error
}

// Run executes the flow with the user's decision. A declined flow is a
// no-op.
func (f ConfirmFlow) Run(confirmed bool) error {
	if !confirmed || f.OnConfirm == nil {
		return nil
	}
	return f.OnConfirm()
}
