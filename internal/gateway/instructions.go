package gateway

import "strings"

// InstructionMap holds the customer-facing payment steps per method.
// Placeholders are filled from the payment response metadata.
var InstructionMap = map[PaymentMethod][]string{
	MethodBankTransfer: {
		"Transfer {{amount}} {{currency}} to {{bank_name}} account {{account_number}} ({{account_name}})",
		"Use the deposit reference {{deposit_reference}} as the transfer remark",
		"Keep the deposit slip until the booking is confirmed",
		"Your booking is confirmed once finance matches the transfer, usually within one working day",
	},
	MethodPayHere: {
		"You will be redirected to the PayHere secure checkout page",
		"Complete the payment with your card or bank account",
		"Do not close the browser until you are redirected back",
	},
	MethodEzCash: {
		"You will be redirected to the eZ Cash payment page",
		"Confirm the payment with the PIN sent to {{msisdn}}",
	},
	MethodMCash: {
		"You will be redirected to the mCash payment page",
		"Confirm the payment with the PIN sent to {{msisdn}}",
	},
}

// Instructions renders the steps for a method, substituting
// {{placeholder}} tokens from values. Unknown methods get no steps.
func Instructions(method PaymentMethod, values map[string]string) []string {
	steps, ok := InstructionMap[method]
	if !ok {
		return nil
	}

	out := make([]string, len(steps))
	for i, step := range steps {
		for key, val := range values {
			step = strings.ReplaceAll(step, "{{"+key+"}}", val)
		}
		out[i] = step
	}
	return out
}
