package checkout

import (
	"fmt"
)

// State 一次结算尝试所处的阶段
type State int

const (
	StateIdle State = iota
	StateValidatingPayment
	StateReserving
	StatePersisting
	StateFinalizing
	StateCompleted
	StateAborted
)

var stateNames = map[State]string{
	StateIdle:              "idle",
	StateValidatingPayment: "validating_payment",
	StateReserving:         "reserving",
	StatePersisting:        "persisting",
	StateFinalizing:        "finalizing",
	StateCompleted:         "completed",
	StateAborted:           "aborted",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// 合法的状态流转
// Aborted只能从校验支付、预留、落单三个阶段进入;Finalizing之后不再回退
var transitions = map[State][]State{
	StateIdle:              {StateValidatingPayment},
	StateValidatingPayment: {StateReserving, StateAborted},
	StateReserving:         {StatePersisting, StateAborted},
	StatePersisting:        {StateFinalizing, StateAborted},
	StateFinalizing:        {StateCompleted},
}

// CanTransitionTo 判断能否流转到next
func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal 是否为终态
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateAborted
}

// machine 单次结算的状态记录
type machine struct {
	state State
}

func (m *machine) to(next State) error {
	if !m.state.CanTransitionTo(next) {
		return fmt.Errorf("非法的结算状态流转: %s -> %s", m.state, next)
	}
	m.state = next
	return nil
}
