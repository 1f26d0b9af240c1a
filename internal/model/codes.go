package model

import "strconv"

// ObjectType is a VPI object type code. Relations and iteration kinds share
// the same number space, as they do in the C interface.
type ObjectType int32

// Object types, iteration kinds and one-to-one relations.
const (
	TypeUndefined     ObjectType = 0
	TypeConstant      ObjectType = 7
	TypeIntegerVar    ObjectType = 25
	TypeIterator      ObjectType = 27
	TypeMemory        ObjectType = 29
	TypeModule        ObjectType = 32
	TypeNet           ObjectType = 36
	TypeNetBit        ObjectType = 37
	TypeParameter     ObjectType = 41
	TypePort          ObjectType = 44
	TypeRealVar       ObjectType = 47
	TypeReg           ObjectType = 48
	TypeRegBit        ObjectType = 49
	TypeSchedEvent    ObjectType = 53
	TypeSysFuncCall   ObjectType = 56
	TypeSysTaskCall   ObjectType = 57
	TypeUserSystf     ObjectType = 67
	TypeLeftRange     ObjectType = 79
	TypeLowConn       ObjectType = 80
	TypeParent        ObjectType = 81
	TypeRightRange    ObjectType = 83
	TypeScope         ObjectType = 84
	TypeSysTfCall     ObjectType = 85
	TypeBit           ObjectType = 90
	TypeInternalScope ObjectType = 92
	TypeVariables     ObjectType = 100
	TypeExpr          ObjectType = 102
	TypeCallback      ObjectType = 107
	TypeNetArray      ObjectType = 114
	TypeRange         ObjectType = 115
	TypeRegArray      ObjectType = 116
	TypeGenScope      ObjectType = 134

	TypeTypespec            ObjectType = 605
	TypeLongIntVar          ObjectType = 610
	TypeShortIntVar         ObjectType = 611
	TypeIntVar              ObjectType = 612
	TypeByteVar             ObjectType = 614
	TypeStringVar           ObjectType = 616
	TypeStructVar           ObjectType = 618
	TypeUnionVar            ObjectType = 619
	TypeBitVar              ObjectType = 620
	TypePackedArrayVar      ObjectType = 623
	TypeLongIntTypespec     ObjectType = 625
	TypeByteTypespec        ObjectType = 627
	TypeShortIntTypespec    ObjectType = 628
	TypeIntTypespec         ObjectType = 629
	TypeStringTypespec      ObjectType = 631
	TypeIntegerTypespec     ObjectType = 635
	TypeRealTypespec        ObjectType = 637
	TypeStructTypespec      ObjectType = 638
	TypeUnionTypespec       ObjectType = 639
	TypeBitTypespec         ObjectType = 640
	TypeLogicTypespec       ObjectType = 641
	TypeArrayTypespec       ObjectType = 642
	TypeTypespecMember      ObjectType = 644
	TypePackedArrayTypespec ObjectType = 692
	TypeMember              ObjectType = 742
)

// Aliases defined by IEEE 1800 on top of the Verilog-2005 codes.
const (
	TypeLogicVar = TypeReg
	TypeArrayVar = TypeRegArray
)

var objectTypeNames = map[ObjectType]string{
	TypeUndefined:           "vpiUndefined",
	TypeConstant:            "vpiConstant",
	TypeIntegerVar:          "vpiIntegerVar",
	TypeIterator:            "vpiIterator",
	TypeMemory:              "vpiMemory",
	TypeModule:              "vpiModule",
	TypeNet:                 "vpiNet",
	TypeNetBit:              "vpiNetBit",
	TypeParameter:           "vpiParameter",
	TypePort:                "vpiPort",
	TypeRealVar:             "vpiRealVar",
	TypeReg:                 "vpiReg",
	TypeRegBit:              "vpiRegBit",
	TypeSchedEvent:          "vpiSchedEvent",
	TypeSysFuncCall:         "vpiSysFuncCall",
	TypeSysTaskCall:         "vpiSysTaskCall",
	TypeUserSystf:           "vpiUserSystf",
	TypeLeftRange:           "vpiLeftRange",
	TypeLowConn:             "vpiLowConn",
	TypeParent:              "vpiParent",
	TypeRightRange:          "vpiRightRange",
	TypeScope:               "vpiScope",
	TypeSysTfCall:           "vpiSysTfCall",
	TypeBit:                 "vpiBit",
	TypeInternalScope:       "vpiInternalScope",
	TypeVariables:           "vpiVariables",
	TypeExpr:                "vpiExpr",
	TypeCallback:            "vpiCallback",
	TypeNetArray:            "vpiNetArray",
	TypeRange:               "vpiRange",
	TypeRegArray:            "vpiArrayVar",
	TypeGenScope:            "vpiGenScope",
	TypeTypespec:            "vpiTypespec",
	TypeLongIntVar:          "vpiLongIntVar",
	TypeShortIntVar:         "vpiShortIntVar",
	TypeIntVar:              "vpiIntVar",
	TypeByteVar:             "vpiByteVar",
	TypeStringVar:           "vpiStringVar",
	TypeStructVar:           "vpiStructVar",
	TypeUnionVar:            "vpiUnionVar",
	TypeBitVar:              "vpiBitVar",
	TypePackedArrayVar:      "vpiPackedArrayVar",
	TypeLongIntTypespec:     "vpiLongIntTypespec",
	TypeByteTypespec:        "vpiByteTypespec",
	TypeShortIntTypespec:    "vpiShortIntTypespec",
	TypeIntTypespec:         "vpiIntTypespec",
	TypeStringTypespec:      "vpiStringTypespec",
	TypeIntegerTypespec:     "vpiIntegerTypespec",
	TypeRealTypespec:        "vpiRealTypespec",
	TypeStructTypespec:      "vpiStructTypespec",
	TypeUnionTypespec:       "vpiUnionTypespec",
	TypeBitTypespec:         "vpiBitTypespec",
	TypeLogicTypespec:       "vpiLogicTypespec",
	TypeArrayTypespec:       "vpiArrayTypespec",
	TypeTypespecMember:      "vpiTypespecMember",
	TypePackedArrayTypespec: "vpiPackedArrayTypespec",
	TypeMember:              "vpiMember",
}

// legacyTypeNames holds the Verilog-2005 spelling of codes whose
// SystemVerilog name differs.
var legacyTypeNames = map[ObjectType]string{
	TypeRegArray: "vpiRegArray",
}

// String returns the IEEE 1800 symbol name.
func (t ObjectType) String() string {
	if name, ok := objectTypeNames[t]; ok {
		return name
	}

	return "vpiUndefined(" + strconv.Itoa(int(t)) + ")"
}

// LegacyString returns the IEEE 1364 symbol name.
func (t ObjectType) LegacyString() string {
	if name, ok := legacyTypeNames[t]; ok {
		return name
	}

	return t.String()
}

// ParseObjectType resolves a symbol name (either spelling) to its code.
func ParseObjectType(name string) (ObjectType, bool) {
	for code, n := range legacyTypeNames {
		if n == name {
			return code, true
		}
	}

	for code, n := range objectTypeNames {
		if n == name {
			return code, true
		}
	}

	return TypeUndefined, false
}

// Property is a vpi_get / vpi_get_str property code.
type Property int32

// Properties.
const (
	PropUndefined         Property = -1
	PropType              Property = 1
	PropName              Property = 2
	PropFullName          Property = 3
	PropSize              Property = 4
	PropTopModule         Property = 7
	PropDefName           Property = 9
	PropScalar            Property = 17
	PropVector            Property = 18
	PropDirection         Property = 20
	PropArray             Property = 28
	PropScheduled         Property = 46
	PropAutomatic         Property = 50
	PropSigned            Property = 65
	PropArrayType         Property = 606
	PropArrayMember       Property = 607
	PropIsRandomized      Property = 608
	PropRandType          Property = 610
	PropConstantVariable  Property = 612
	PropStructUnionMember Property = 615
	PropVisibility        Property = 620
	PropAllocScheme       Property = 658
	PropPackedArrayMember Property = 671
)

var propertyNames = map[Property]string{
	PropType:              "vpiType",
	PropName:              "vpiName",
	PropFullName:          "vpiFullName",
	PropSize:              "vpiSize",
	PropTopModule:         "vpiTopModule",
	PropDefName:           "vpiDefName",
	PropScalar:            "vpiScalar",
	PropVector:            "vpiVector",
	PropDirection:         "vpiDirection",
	PropArray:             "vpiArray",
	PropScheduled:         "vpiScheduled",
	PropAutomatic:         "vpiAutomatic",
	PropSigned:            "vpiSigned",
	PropArrayType:         "vpiArrayType",
	PropArrayMember:       "vpiArrayMember",
	PropIsRandomized:      "vpiIsRandomized",
	PropRandType:          "vpiRandType",
	PropConstantVariable:  "vpiConstantVariable",
	PropStructUnionMember: "vpiStructUnionMember",
	PropVisibility:        "vpiVisibility",
	PropAllocScheme:       "vpiAllocScheme",
	PropPackedArrayMember: "vpiPackedArrayMember",
}

// IsKnown reports whether p is one of the property codes above.
func (p Property) IsKnown() bool {
	_, ok := propertyNames[p]
	return ok
}

func (p Property) String() string {
	if name, ok := propertyNames[p]; ok {
		return name
	}

	return "vpiUndefined(" + strconv.Itoa(int(p)) + ")"
}

// Property values.
const (
	StaticArray int32 = 1

	PublicVis    int32 = 1
	ProtectedVis int32 = 2
	LocalVis     int32 = 3

	DirInput  int32 = 1
	DirOutput int32 = 2
	DirInout  int32 = 3
)

// Format is a value format code.
type Format int32

// Value formats.
const (
	BinStrVal   Format = 1
	OctStrVal   Format = 2
	DecStrVal   Format = 3
	HexStrVal   Format = 4
	ScalarVal   Format = 5
	IntVal      Format = 6
	RealVal     Format = 7
	StringVal   Format = 8
	VectorVal   Format = 9
	StrengthVal Format = 10
	TimeVal     Format = 11
	ObjTypeVal  Format = 12
	SuppressVal Format = 13
)

var formatNames = map[Format]string{
	BinStrVal:   "vpiBinStrVal",
	OctStrVal:   "vpiOctStrVal",
	DecStrVal:   "vpiDecStrVal",
	HexStrVal:   "vpiHexStrVal",
	ScalarVal:   "vpiScalarVal",
	IntVal:      "vpiIntVal",
	RealVal:     "vpiRealVal",
	StringVal:   "vpiStringVal",
	VectorVal:   "vpiVectorVal",
	StrengthVal: "vpiStrengthVal",
	TimeVal:     "vpiTimeVal",
	ObjTypeVal:  "vpiObjTypeVal",
	SuppressVal: "vpiSuppressVal",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}

	return "vpiUndefined(" + strconv.Itoa(int(f)) + ")"
}

// ParseFormat accepts either the symbol name or a short alias such as "hex".
func ParseFormat(name string) (Format, bool) {
	switch name {
	case "bin", "binary":
		return BinStrVal, true
	case "oct", "octal":
		return OctStrVal, true
	case "dec", "decimal":
		return DecStrVal, true
	case "hex":
		return HexStrVal, true
	case "scalar":
		return ScalarVal, true
	case "int":
		return IntVal, true
	case "real":
		return RealVal, true
	case "string", "str":
		return StringVal, true
	case "vector":
		return VectorVal, true
	case "obj", "objtype":
		return ObjTypeVal, true
	}

	for code, n := range formatNames {
		if n == name {
			return code, true
		}
	}

	return 0, false
}

// Scalar values.
const (
	Scalar0 int32 = 0
	Scalar1 int32 = 1
	ScalarZ int32 = 2
	ScalarX int32 = 3
)

// DelayMode is the flags argument of put_value.
type DelayMode int32

// Delay modes.
const (
	NoDelay            DelayMode = 1
	InertialDelay      DelayMode = 2
	TransportDelay     DelayMode = 3
	PureTransportDelay DelayMode = 4
	ForceFlag          DelayMode = 5
	ReleaseFlag        DelayMode = 6
	CancelEvent        DelayMode = 7
	ReturnEvent        DelayMode = 0x1000
)

// Mode strips ReturnEvent from the flags.
func (d DelayMode) Mode() DelayMode {
	return d &^ ReturnEvent
}

// Error severities reported by ChkError.
const (
	LevelNotice   int32 = 1
	LevelWarning  int32 = 2
	LevelError    int32 = 3
	LevelSystem   int32 = 4
	LevelInternal int32 = 5
)

// ParseProperty resolves a property symbol name to its code.
func ParseProperty(name string) (Property, bool) {
	for code, n := range propertyNames {
		if n == name {
			return code, true
		}
	}

	return PropUndefined, false
}
