package managers

import "time"

func SetVerificationClock(vm *VerificationManager, now func() time.Time) {
	vm.now = now
}

func SetBcryptCost(vm *VerificationManager, cost int) {
	vm.bcryptCost = cost
}

func SetPostClock(pm *PostManager, now func() time.Time) {
	pm.now = now
}
