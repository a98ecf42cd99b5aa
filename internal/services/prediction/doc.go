/*
Package prediction runs submitted assessments through the risk scorer and
keeps a per-user history of the results.

Evaluate is stateless: it validates, scores and classifies without
touching storage. Create does the same and stores the outcome as a
models.Prediction owned by the caller. The first page of each user's
history is cached in Redis and dropped whenever the user creates or
deletes a prediction.

Errors:
  - validation.Errors: the assessment failed the input gate
  - ErrPredictionNotFound: no such prediction, or it belongs to someone else
*/
package prediction
