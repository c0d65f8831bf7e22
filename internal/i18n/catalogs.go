package i18n

// Message keys shared across the session manager, the data client and the
// HTTP handlers.
const (
	MsgInvalidCredentials    = "invalid_credentials"
	MsgUserNotFound          = "user_not_found"
	MsgSimulationUnavailable = "simulation_unavailable"
	MsgBackendUnavailable    = "backend_unavailable"
	MsgConnected             = "connected"
	MsgSimulationMode        = "simulation_mode"
	MsgConnectionError       = "connection_error"
	MsgRequestTimeout        = "request_timeout"
)

var catalogs = map[Lang]map[string]string{
	Arabic: {
		MsgInvalidCredentials:    "بيانات الدخول غير صحيحة",
		MsgUserNotFound:          "المستخدم غير موجود",
		MsgSimulationUnavailable: "غير متاح في وضع المحاكاة - يرجى تشغيل الخادم",
		MsgBackendUnavailable:    "الخادم غير متصل - يتم استخدام البيانات التجريبية",
		MsgConnected:             "متصل بالخادم",
		MsgSimulationMode:        "وضع المحاكاة - الخادم غير متصل",
		MsgConnectionError:       "خطأ في الاتصال مع الخادم",
		MsgRequestTimeout:        "انتهت مهلة الطلب",
	},
	English: {
		MsgInvalidCredentials:    "invalid username or password",
		MsgUserNotFound:          "user not found",
		MsgSimulationUnavailable: "unavailable in simulation mode - start the backend server",
		MsgBackendUnavailable:    "backend unavailable - serving demo data",
		MsgConnected:             "connected to backend",
		MsgSimulationMode:        "simulation mode - backend not connected",
		MsgConnectionError:       "error communicating with the server",
		MsgRequestTimeout:        "request timed out",
	},
}
