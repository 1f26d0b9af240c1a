package model

import "strconv"

// Handle is an opaque reference to an object in a provider's handle
// registry. The zero value is the null handle.
type Handle uint64

// IsNull reports whether h is the null handle.
func (h Handle) IsNull() bool { return h == 0 }

// CbReason selects when a callback fires.
type CbReason int32

// Callback reasons.
const (
	CbValueChange       CbReason = 1
	CbReadWriteSynch    CbReason = 6
	CbReadOnlySynch     CbReason = 7
	CbNextSimTime       CbReason = 8
	CbAfterDelay        CbReason = 9
	CbStartOfSimulation CbReason = 11
	CbEndOfSimulation   CbReason = 12
)

var cbReasonNames = map[CbReason]string{
	CbValueChange:       "cbValueChange",
	CbReadWriteSynch:    "cbReadWriteSynch",
	CbReadOnlySynch:     "cbReadOnlySynch",
	CbNextSimTime:       "cbNextSimTime",
	CbAfterDelay:        "cbAfterDelay",
	CbStartOfSimulation: "cbStartOfSimulation",
	CbEndOfSimulation:   "cbEndOfSimulation",
}

func (r CbReason) String() string {
	if name, ok := cbReasonNames[r]; ok {
		return name
	}

	return "cbUnknown(" + strconv.Itoa(int(r)) + ")"
}

// Persistent reports whether callbacks of this reason stay registered
// after firing.
func (r CbReason) Persistent() bool {
	return r == CbValueChange
}

// CbFunc is a callback routine. A returned error is logged and does not
// stop delivery to the remaining callbacks.
type CbFunc func(cb *CbData) error

// CbData describes a callback registration and, on delivery, the event.
// For value-change callbacks Obj is the watched object and Value.Format
// selects the format the new value is delivered in. For cbAfterDelay Time
// is the delay relative to the registration time.
type CbData struct {
	Reason   CbReason
	Func     CbFunc
	Obj      Handle
	Time     *Time
	Value    *Value
	UserData any
}

// SystfType distinguishes system tasks from system functions.
type SystfType int32

// Systf types.
const (
	SysTask SystfType = 1
	SysFunc SystfType = 2
)

// SysFuncType is the return type of a system function.
type SysFuncType int32

// Systf function return types.
const (
	IntFunc   SysFuncType = 1
	RealFunc  SysFuncType = 2
	SizedFunc SysFuncType = 4
)

// SystfData registers a user-defined system task or function.
type SystfData struct {
	Type        SystfType
	SysFuncType SysFuncType
	Name        string
	CallTf      func(userData any) error
	CompileTf   func(userData any) error
	UserData    any
}

// ErrorInfo is the record returned by ChkError.
type ErrorInfo struct {
	Level   int32
	Message string
	Product string
}
