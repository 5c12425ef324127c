package rdf

// Namespace prefixes used in emitted documents.
const (
	NSHMAS   = "https://purl.org/hmas/"
	NSTD     = "https://www.w3.org/2019/wot/td#"
	NSHCTL   = "https://www.w3.org/2019/wot/hypermedia#"
	NSJS     = "https://www.w3.org/2019/wot/json-schema#"
	NSWotSec = "https://www.w3.org/2019/wot/security#"
	NSHTV    = "http://www.w3.org/2011/http#"
	NSWebSub = "https://purl.org/hmas/websub/"
	NSJacamo = "https://purl.org/hmas/jacamo/"
	NSEX     = "http://example.org/"
	NSRDF    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NSXSD    = "http://www.w3.org/2001/XMLSchema#"
)

// Common IRIs assembled from the namespaces above.
const (
	TypeRDF = NSRDF + "type"

	ClassWorkspace        = NSHMAS + "Workspace"
	ClassArtifact         = NSHMAS + "Artifact"
	ClassResourceProfile  = NSHMAS + "ResourceProfile"
	ClassThing            = NSTD + "Thing"
	ClassActionAffordance = NSTD + "ActionAffordance"
	ClassNoSecurityScheme = NSWotSec + "NoSecurityScheme"

	PredIsProfileOf       = NSHMAS + "isProfileOf"
	PredIsContainedIn     = NSHMAS + "isContainedIn"
	PredContains          = NSHMAS + "contains"
	PredTitle             = NSTD + "title"
	PredHasActionAff      = NSTD + "hasActionAffordance"
	PredHasSecurityConfig = NSTD + "hasSecurityConfiguration"
	PredName              = NSTD + "name"
	PredHasForm           = NSTD + "hasForm"
	PredHasTarget         = NSHCTL + "hasTarget"
	PredForContentType    = NSHCTL + "forContentType"
	PredHasOperationType  = NSHCTL + "hasOperationType"
	PredForSubProtocol    = NSHCTL + "forSubProtocol"
	PredMethodName        = NSHTV + "methodName"

	OpInvokeAction = NSTD + "invokeAction"

	TypePerceiveArtifact = NSJacamo + "PerceiveArtifact"
	TypeUpdateArtifact   = NSJacamo + "UpdateArtifact"
	TypeDeleteArtifact   = NSJacamo + "DeleteArtifact"
	TypeFocus            = NSJacamo + "Focus"
	TypeCreateArtifact   = NSJacamo + "createArtifact"
	TypeJoinWorkspace    = NSJacamo + "JoinWorkspace"
	TypeQuitWorkspace    = NSJacamo + "QuitWorkspace"

	TypeSubscribeArtifact   = NSWebSub + "subscribeToArtifact"
	TypeUnsubscribeArtifact = NSWebSub + "unsubscribeFromArtifact"
	TypeSubscribeWorkspace  = NSWebSub + "subscribeToWorkspace"

	TypeStatusCommand = NSEX + "StatusCommand"
	TypeHueLamp       = NSEX + "HueLamp"
)
