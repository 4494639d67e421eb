package settings

var GeofenceFillScript = fillScript
