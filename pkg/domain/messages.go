package domain

// Texts shown to the user.
const (
	MsgImageUploaded       = "Image uploaded."
	MsgNoImageSelected     = "No image selected."
	MsgUploadImageFirst    = "Please upload an image first."
	MsgEnterInjuryDetails  = "Please enter injury details."
	MsgCouldNotParse       = "Could not parse response."
	MsgChatPanelOpened     = "🐾 First aid chat is open. Send a photo of the animal, then describe the injury."
	MsgLocationNotReady    = "Location not ready yet. Please wait..."
	MsgShareLocation       = "📍 Share your location so I can find clinics nearby."
	MsgSearchingClinics    = "Searching for nearby clinics..."
	MsgNoClinicsFound      = "No nearby veterinary clinics found."
	MsgLoadingVolunteers   = "Loading volunteers..."
	MsgNoVolunteerData     = "No volunteer data found"
	MsgVolunteersClosed    = "Volunteers list closed."
	MsgAPIAccessDenied     = "API access denied"
	MsgSpreadsheetNotFound = "Spreadsheet not found"
	MsgViewOnMaps          = "View on Maps"
	MsgCall                = "📞 Call"
)
