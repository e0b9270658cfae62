package sqlinline

const QInsertGenerationAttempt = `--sql 3f1c9a7e-52d4-4b0e-9c61-2e8a7d4f0b15
insert into generation_attempts (
    id,
    session_id,
    operation,
    template_id,
    instruction,
    model,
    succeeded,
    error_message,
    started_at,
    duration_ms
)
values ($1::uuid, $2::text, $3::text, $4::text, $5::text, $6::text, $7::bool, nullif($8::text, ''), $9::timestamptz, $10::bigint);
`

const QCountGenerationAttemptsSince = `--sql b7e2d6a0-8c3f-4e19-a5d2-61f09c4b7e38
select
    count(*) filter (where succeeded)     as succeeded,
    count(*) filter (where not succeeded) as failed
from generation_attempts
where started_at >= $1::timestamptz;
`
