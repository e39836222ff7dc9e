package session

import (
	"encoding/json"

	"github.com/dgnsrekt/cdpagent/internal/cdp/state"
)

// Decoded event payload shapes. Each is a field-minimal projection of the
// corresponding CDP event, carrying only what the state package's
// projections consume (this contract "Dynamic-typed event payloads": model
// each event family as a tagged variant with only the fields the
// projections actually consume).

type scriptParsedEvent struct {
	ScriptID string `json:"scriptId"`
	URL string `json:"url"`
	StartLine int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine int `json:"endLine"`
	EndColumn int `json:"endColumn"`
	Hash string `json:"hash"`
	IsModule bool `json:"isModule"`
	SourceMapURL string `json:"sourceMapURL"`
	HasSourceURL bool `json:"hasSourceURL"`
	ExecutionContextID int64 `json:"executionContextId"`
}

type callFrameWire struct {
	CallFrameID string `json:"callFrameId"`
	FunctionName string `json:"functionName"`
	Location struct {
		ScriptID string `json:"scriptId"`
		LineNumber int `json:"lineNumber"`
		ColumnNumber int `json:"columnNumber"`
	} `json:"location"`
	URL string `json:"url"`
}

type pausedEvent struct {
	CallFrames []callFrameWire `json:"callFrames"`
	Reason string `json:"reason"`
	Data map[string]any `json:"data"`
	HitBreakpoints []string `json:"hitBreakpoints"`
	AsyncStackTrace map[string]any `json:"asyncStackTrace"`
}

type breakpointResolvedEvent struct {
	BreakpointID string `json:"breakpointId"`
	Location struct {
		ScriptID string `json:"scriptId"`
		LineNumber int `json:"lineNumber"`
		ColumnNumber int `json:"columnNumber"`
	} `json:"location"`
}

type remoteObjectWire struct {
	Type string `json:"type"`
	Subtype string `json:"subtype"`
	ClassName string `json:"className"`
	Value any `json:"value"`
	Description string `json:"description"`
}

type consoleAPICalledEvent struct {
	Type string `json:"type"`
	Args []remoteObjectWire `json:"args"`
	Timestamp float64 `json:"timestamp"`
	StackTrace *struct {
		CallFrames []struct {
			URL string `json:"url"`
			LineNumber int `json:"lineNumber"`
		} `json:"callFrames"`
	} `json:"stackTrace"`
}

type exceptionThrownEvent struct {
	Timestamp float64 `json:"timestamp"`
	ExceptionDetails struct {
		Text string `json:"text"`
		LineNumber int `json:"lineNumber"`
		ColumnNumber int `json:"columnNumber"`
		URL string `json:"url"`
		Exception *remoteObjectWire `json:"exception"`
		StackTrace map[string]any `json:"stackTrace"`
	} `json:"exceptionDetails"`
}

type requestWillBeSentEvent struct {
	RequestID string `json:"requestId"`
	Timestamp float64 `json:"timestamp"`
	Request struct {
		URL string `json:"url"`
		Method string `json:"method"`
		Headers map[string]string `json:"headers"`
	} `json:"request"`
	Type string `json:"type"`
}

type responseReceivedEvent struct {
	RequestID string `json:"requestId"`
	Response struct {
		Status int `json:"status"`
		MimeType string `json:"mimeType"`
		Headers map[string]string `json:"headers"`
	} `json:"response"`
}

type loadingFinishedEvent struct {
	RequestID string `json:"requestId"`
	Timestamp float64 `json:"timestamp"`
	EncodedDataLength float64 `json:"encodedDataLength"`
}

type loadingFailedEvent struct {
	RequestID string `json:"requestId"`
	Timestamp float64 `json:"timestamp"`
	ErrorText string `json:"errorText"`
	Canceled bool `json:"canceled"`
}

type requestPausedEvent struct {
	RequestID string `json:"requestId"`
	Request struct {
		URL string `json:"url"`
		Method string `json:"method"`
		Headers map[string]string `json:"headers"`
		PostData string `json:"postData"`
	} `json:"request"`
	ResourceType string `json:"resourceType"`
}

type logEntryAddedEvent struct {
	Entry struct {
		Source string `json:"source"`
		Level string `json:"level"`
		Text string `json:"text"`
		URL string `json:"url"`
		Timestamp float64 `json:"timestamp"`
	} `json:"entry"`
}

type workerUpdatedEvent struct {
	Registrations []struct {
		RegistrationID string `json:"registrationId"`
		ScopeURL string `json:"scopeURL"`
		IsDeleted bool `json:"isDeleted"`
	} `json:"registrations"`
	Versions []struct {
		RegistrationID string `json:"registrationId"`
		Status string `json:"status"`
	} `json:"versions"`
}

// wireProjections registers one router handler per row of this contract's
// event-routing table, each closing over the relevant projection. All
// projections accept events unconditionally regardless of the tracked
// enabled flag (this contract: "enable/disable affects only the CDP
// subscription, not the in-memory container's willingness to accept
// events").
func (s *Session) wireProjections() {
	s.router.On("Debugger.scriptParsed", func(_ string, raw json.RawMessage) {
		var ev scriptParsedEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return
		}
		s.scripts.OnScriptParsed(state.ScriptInfo{
			ScriptID: state.ScriptID(ev.ScriptID),
			URL: ev.URL,
			StartLine: ev.StartLine,
			StartColumn: ev.StartColumn,
			EndLine: ev.EndLine,
			EndColumn: ev.EndColumn,
			Hash: ev.Hash,
			IsModule: ev.IsModule,
			SourceMapURL: ev.SourceMapURL,
			HasSourceMap: ev.SourceMapURL != "",
			ExecutionCtxID: state.ExecutionContextID(ev.ExecutionContextID),
		})
	})

	s.router.On("Debugger.paused", func(_ string, raw json.RawMessage) {
		var ev pausedEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return
		}
		s.debug.OnPaused(ev.Reason, decodeCallFrames(ev.CallFrames), ev.HitBreakpoints, ev.Data, ev.AsyncStackTrace)
		s.notifyPaused(ev)
	})

	s.router.On("Debugger.resumed", func(_ string, _ json.RawMessage) {
		s.debug.OnResumed()
	})

	s.router.On("Debugger.breakpointResolved", func(_ string, raw json.RawMessage) {
		var ev breakpointResolvedEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return
		}
		s.debug.ResolveBreakpoint(ev.BreakpointID, state.ResolvedLocation{
			ScriptID: state.ScriptID(ev.Location.ScriptID),
			LineNumber: ev.Location.LineNumber,
			ColumnNumber: ev.Location.ColumnNumber,
		})
	})

	s.router.On("Runtime.consoleAPICalled", func(_ string, raw json.RawMessage) {
		var ev consoleAPICalledEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return
		}
		var url string
		var line int
		if ev.StackTrace != nil && len(ev.StackTrace.CallFrames) > 0 {
			url = ev.StackTrace.CallFrames[0].URL
			line = ev.StackTrace.CallFrames[0].LineNumber
		}
		s.console.OnConsoleAPICalled(ev.Type, decodeConsoleArgs(ev.Args), ev.Timestamp, url, line)
	})

	s.router.On("Runtime.exceptionThrown", func(_ string, raw json.RawMessage) {
		var ev exceptionThrownEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return
		}
		exc := state.CollectedException{
			Text: ev.ExceptionDetails.Text,
			LineNumber: ev.ExceptionDetails.LineNumber,
			ColumnNumber: ev.ExceptionDetails.ColumnNumber,
			URL: ev.ExceptionDetails.URL,
			Timestamp: ev.Timestamp,
		}
		if ev.ExceptionDetails.Exception != nil {
			exc.ExceptionDetails = ev.ExceptionDetails.Exception.Description
		}
		s.console.OnExceptionThrown(exc)
	})

	s.router.On("Network.requestWillBeSent", func(_ string, raw json.RawMessage) {
		var ev requestWillBeSentEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return
		}
		s.network.OnRequestWillBeSent(state.RequestID(ev.RequestID), ev.Request.URL, ev.Request.Method, ev.Type, ev.Request.Headers, ev.Timestamp)
	})

	s.router.On("Network.responseReceived", func(_ string, raw json.RawMessage) {
		var ev responseReceivedEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return
		}
		s.network.OnResponseReceived(state.RequestID(ev.RequestID), ev.Response.Status, ev.Response.MimeType, ev.Response.Headers)
	})

	s.router.On("Network.loadingFinished", func(_ string, raw json.RawMessage) {
		var ev loadingFinishedEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return
		}
		s.network.OnLoadingFinished(state.RequestID(ev.RequestID), ev.Timestamp, ev.EncodedDataLength)
	})

	s.router.On("Network.loadingFailed", func(_ string, raw json.RawMessage) {
		var ev loadingFailedEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return
		}
		s.network.OnLoadingFailed(state.RequestID(ev.RequestID), ev.Timestamp, ev.ErrorText, ev.Canceled)
	})

	s.router.On("Fetch.requestPaused", func(_ string, raw json.RawMessage) {
		var ev requestPausedEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return
		}
		s.fetch.OnRequestPaused(state.RequestID(ev.RequestID), ev.Request.URL, ev.Request.Method, ev.ResourceType, ev.Request.Headers, ev.Request.PostData, 0)
	})

	s.router.On("Log.entryAdded", func(_ string, raw json.RawMessage) {
		var ev logEntryAddedEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return
		}
		s.logs.Add(state.LogEntry{
			Source: ev.Entry.Source,
			Level: ev.Entry.Level,
			Text: ev.Entry.Text,
			URL: ev.Entry.URL,
			Timestamp: ev.Entry.Timestamp,
		})
	})

	s.router.On("ServiceWorker.workerRegistrationUpdated", func(_ string, raw json.RawMessage) {
		var ev workerUpdatedEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return
		}
		for _, reg := range ev.Registrations {
			s.workers.Upsert(state.WorkerInfo{ID: reg.RegistrationID, ScopeURL: reg.ScopeURL, IsDeleted: reg.IsDeleted})
		}
	})

	s.router.On("ServiceWorker.workerVersionUpdated", func(_ string, raw json.RawMessage) {
		// Version updates carry status transitions rather than isDeleted; the
		// registration event is authoritative for lifecycle. Nothing to
		// project beyond what workerRegistrationUpdated already captures.
		_ = raw
	})

	s.router.On("DOM.documentUpdated", func(_ string, _ json.RawMessage) {
		s.invalidateDocumentNode()
	})
}

func decodeCallFrames(wire []callFrameWire) []state.CallFrame {
	out := make([]state.CallFrame, len(wire))
	for i, cf := range wire {
		out[i] = state.CallFrame{
			CallFrameID: state.CallFrameID(cf.CallFrameID),
			FunctionName: cf.FunctionName,
			URL: cf.URL,
			ScriptID: state.ScriptID(cf.Location.ScriptID),
			LineNumber: cf.Location.LineNumber,
			ColumnNumber: cf.Location.ColumnNumber,
		}
	}
	return out
}

func decodeConsoleArgs(wire []remoteObjectWire) []state.ConsoleArg {
	out := make([]state.ConsoleArg, len(wire))
	for i, a := range wire {
		out[i] = state.ConsoleArg{
			Type: a.Type,
			Subtype: a.Subtype,
			ClassName: a.ClassName,
			Value: a.Value,
			Description: a.Description,
		}
	}
	return out
}
