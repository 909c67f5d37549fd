package publish

import "testing"

func TestCallBudgetCeiling(t *testing.T) {
	budget := NewCallBudget(3)

	for i := 0; i < 3; i++ {
		if !budget.Allow("acct") {
			t.Fatalf("call %d refused within budget", i+1)
		}
	}
	if budget.Allow("acct") {
		t.Error("call 4 allowed past a budget of 3")
	}
}

func TestCallBudgetPerAccount(t *testing.T) {
	budget := NewCallBudget(1)

	if !budget.Allow("a") {
		t.Fatal("first call for account a refused")
	}
	if budget.Allow("a") {
		t.Error("second call for account a allowed")
	}
	if !budget.Allow("b") {
		t.Error("account b's budget drained by account a")
	}
}

func TestCallBudgetDefaultCeiling(t *testing.T) {
	budget := NewCallBudget(0)
	if budget.ceiling != DefaultHourlyCallCeiling {
		t.Errorf("ceiling = %d, want %d", budget.ceiling, DefaultHourlyCallCeiling)
	}
}
