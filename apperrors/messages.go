package apperrors

// User-facing message text, collected here so a deployment can localize it
// without touching service logic.
const (
	MsgNameRequired            = "Name is required"
	MsgUsernameRequired        = "Username is required"
	MsgUsernameTaken           = "Username is already taken"
	MsgEmailRequired           = "Email is required"
	MsgEmailInvalid            = "Email is not valid"
	MsgEmailTaken              = "Email is already taken"
	MsgPasswordRequired        = "Password is required"
	MsgPasswordTooShort        = "Password must be at least 5 characters"
	MsgPasswordConfirmRequired = "Password confirmation is required"
	MsgPasswordConfirmMismatch = "Password confirmation does not match"
	MsgDeviceTokenRequired     = "Device token is required"

	MsgUnauthorized = "Unauthorized"

	MsgAccountOnOtherDevice = "Your account is still active on another device, please log out there first"
	// MsgDeviceBoundToOtherFmt names the account currently holding the device.
	MsgDeviceBoundToOtherFmt = "This device is still bound to account '%s', please log in and log out with that account first"

	MsgUserNotFound = "User record not found"
)
