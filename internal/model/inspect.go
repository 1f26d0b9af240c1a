package model

// Node is one entry of a hierarchy dump.
type Node struct {
	Name     string `yaml:"name"`
	FullName string `yaml:"fullname"`
	Type     string `yaml:"type"`
	Size     int32  `yaml:"size"`
	Children []Node `yaml:"children,omitempty"`
}

// PropertyRecord holds every property and accessor of one object.
type PropertyRecord struct {
	Name              string `yaml:"name"`
	FullName          string `yaml:"fullname"`
	Type              string `yaml:"type"`
	Size              int32  `yaml:"size"`
	Scalar            bool   `yaml:"scalar"`
	Vector            bool   `yaml:"vector"`
	Array             bool   `yaml:"array"`
	StructMember      bool   `yaml:"structMember"`
	ArrayMember       bool   `yaml:"arrayMember"`
	PackedArrayMember bool   `yaml:"packedArrayMember"`
	Signed            bool   `yaml:"signed"`
	Automatic         bool   `yaml:"automatic"`
	Constant          bool   `yaml:"constant"`
	Visibility        int32  `yaml:"visibility"`
	ArrayType         int32  `yaml:"arrayType"`
	Module            string `yaml:"module"`
	Scope             string `yaml:"scope"`
	Typespec          string `yaml:"typespec"`
	TypespecName      string `yaml:"typespecName"`
}

// Expectation lists the properties an object must have. Nil fields are
// not checked.
type Expectation struct {
	Lookup            string  `yaml:"lookup"`
	Name              *string `yaml:"name,omitempty"`
	FullName          *string `yaml:"fullname,omitempty"`
	Type              *string `yaml:"type,omitempty"`
	Size              *int32  `yaml:"size,omitempty"`
	Scalar            *bool   `yaml:"scalar,omitempty"`
	Vector            *bool   `yaml:"vector,omitempty"`
	Array             *bool   `yaml:"array,omitempty"`
	StructMember      *bool   `yaml:"structMember,omitempty"`
	ArrayMember       *bool   `yaml:"arrayMember,omitempty"`
	PackedArrayMember *bool   `yaml:"packedArrayMember,omitempty"`
	Signed            *bool   `yaml:"signed,omitempty"`
	Automatic         *bool   `yaml:"automatic,omitempty"`
	Constant          *bool   `yaml:"constant,omitempty"`
	Visibility        *int32  `yaml:"visibility,omitempty"`
	ArrayType         *int32  `yaml:"arrayType,omitempty"`
	Module            *string `yaml:"module,omitempty"`
	Scope             *string `yaml:"scope,omitempty"`
	Typespec          *string `yaml:"typespec,omitempty"`
	TypespecName      *string `yaml:"typespecName,omitempty"`
	Value             *string `yaml:"value,omitempty"`
	Format            string  `yaml:"format,omitempty"`
}

// ExpectationFile is a set of expectations checked against one design.
type ExpectationFile struct {
	Design string        `yaml:"design"`
	Compat []string      `yaml:"compat,omitempty"`
	Expect []Expectation `yaml:"expect"`
}

// Delivery records one callback delivery.
type Delivery struct {
	Time   uint64 `yaml:"time"`
	Reason string `yaml:"reason"`
	Object string `yaml:"object"`
	Value  string `yaml:"value"`
}
