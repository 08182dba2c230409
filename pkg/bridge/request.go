// Package bridge implements the two devbridge channels on top of a
// device.Platform: the platform (method call) channel and the battery (event
// stream) channel.
package bridge

// Method is a method name on the platform channel.
type Method string

const (
	MethodGetDeviceModel  Method = "getDeviceModel"
	MethodGetOSVersion    Method = "getAndroidVersion"
	MethodGetBatteryLevel Method = "getBatteryLevel"

	// MethodGetOSVersionAlias is accepted as a synonym of MethodGetOSVersion.
	MethodGetOSVersionAlias Method = "getOsVersion"
)

// Request is a decoded platform channel call. The concrete types are
// GetDeviceModel, GetOSVersion, GetBatteryLevel and Unknown.
type Request interface {
	Method() Method
	isRequest()
}

type (
	GetDeviceModel  struct{}
	GetOSVersion    struct{}
	GetBatteryLevel struct{}

	// Unknown is a call to a method the bridge does not implement.
	Unknown struct {
		Name string
	}
)

func (GetDeviceModel) Method() Method  { return MethodGetDeviceModel }
func (GetOSVersion) Method() Method    { return MethodGetOSVersion }
func (GetBatteryLevel) Method() Method { return MethodGetBatteryLevel }
func (u Unknown) Method() Method       { return Method(u.Name) }

func (GetDeviceModel) isRequest()  {}
func (GetOSVersion) isRequest()    {}
func (GetBatteryLevel) isRequest() {}
func (Unknown) isRequest()         {}

// ParseRequest maps a method name to its Request. It never fails: names it
// does not know become Unknown.
func ParseRequest(name string) Request {
	switch Method(name) {
	case MethodGetDeviceModel:
		return GetDeviceModel{}
	case MethodGetOSVersion, MethodGetOSVersionAlias:
		return GetOSVersion{}
	case MethodGetBatteryLevel:
		return GetBatteryLevel{}
	default:
		return Unknown{Name: name}
	}
}
